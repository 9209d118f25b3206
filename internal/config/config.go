package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"crumb/internal/analysis"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Analysis AnalysisConfig
	History  HistoryConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	Session SessionConfig
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// AnalysisConfig overrides the formula analysis limits. Every field starts at
// the stock default.
type AnalysisConfig struct {
	HydrationErrorLow    float64
	HydrationWarningLow  float64
	HydrationWarningHigh float64
	HydrationErrorHigh   float64
	SaltWarningLow       float64
	SaltInfoLow          float64
	SaltInfoHigh         float64
	SaltWarningHigh      float64
	PrefermentedInfo     float64
	PrefermentedWarning  float64
	YeastWarningHigh     float64
	YeastInfoLow         float64
	BuildHoursMin        float64
	BuildHoursMax        float64
	SoakerHydrationMin   float64
	SoakerHydrationMax   float64
	SoakHoursMin         float64
	InclusionMax         float64
	EnrichmentMax        float64
}

// Thresholds converts the configuration into analysis thresholds.
func (c AnalysisConfig) Thresholds() analysis.Thresholds {
	th := analysis.DefaultThresholds()
	th.HydrationErrorLow = c.HydrationErrorLow
	th.HydrationWarningLow = c.HydrationWarningLow
	th.HydrationWarningHigh = c.HydrationWarningHigh
	th.HydrationErrorHigh = c.HydrationErrorHigh
	th.SaltWarningLow = c.SaltWarningLow
	th.SaltInfoLow = c.SaltInfoLow
	th.SaltInfoHigh = c.SaltInfoHigh
	th.SaltWarningHigh = c.SaltWarningHigh
	th.PrefermentedInfo = c.PrefermentedInfo
	th.PrefermentedWarning = c.PrefermentedWarning
	th.YeastWarningHigh = c.YeastWarningHigh
	th.YeastInfoLow = c.YeastInfoLow
	th.BuildHoursMin = c.BuildHoursMin
	th.BuildHoursMax = c.BuildHoursMax
	th.SoakerHydrationMin = c.SoakerHydrationMin
	th.SoakerHydrationMax = c.SoakerHydrationMax
	th.SoakHoursMin = c.SoakHoursMin
	th.InclusionMax = c.InclusionMax
	th.EnrichmentMax = c.EnrichmentMax
	return th
}

// HistoryConfig bounds the per-formula undo history kept in memory.
type HistoryConfig struct {
	Limit int
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 5),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 20),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 30*time.Minute),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 5*time.Minute),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 12*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "crumb_session"),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
		},
	}

	cfg.Analysis = loadAnalysis(analysis.DefaultThresholds())

	cfg.History = HistoryConfig{
		Limit: parseIntWithDefault(os.Getenv("HISTORY_LIMIT"), 50),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if cfg.History.Limit <= 0 {
		return Config{}, fmt.Errorf("history limit must be positive, got %d", cfg.History.Limit)
	}
	if err := cfg.Analysis.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadAnalysis(def analysis.Thresholds) AnalysisConfig {
	env := func(key string, fallback float64) float64 {
		return parseFloatWithDefault(os.Getenv("ANALYSIS_"+key), fallback)
	}
	return AnalysisConfig{
		HydrationErrorLow:    env("HYDRATION_ERROR_LOW", def.HydrationErrorLow),
		HydrationWarningLow:  env("HYDRATION_WARNING_LOW", def.HydrationWarningLow),
		HydrationWarningHigh: env("HYDRATION_WARNING_HIGH", def.HydrationWarningHigh),
		HydrationErrorHigh:   env("HYDRATION_ERROR_HIGH", def.HydrationErrorHigh),
		SaltWarningLow:       env("SALT_WARNING_LOW", def.SaltWarningLow),
		SaltInfoLow:          env("SALT_INFO_LOW", def.SaltInfoLow),
		SaltInfoHigh:         env("SALT_INFO_HIGH", def.SaltInfoHigh),
		SaltWarningHigh:      env("SALT_WARNING_HIGH", def.SaltWarningHigh),
		PrefermentedInfo:     env("PREFERMENTED_INFO", def.PrefermentedInfo),
		PrefermentedWarning:  env("PREFERMENTED_WARNING", def.PrefermentedWarning),
		YeastWarningHigh:     env("YEAST_WARNING_HIGH", def.YeastWarningHigh),
		YeastInfoLow:         env("YEAST_INFO_LOW", def.YeastInfoLow),
		BuildHoursMin:        env("BUILD_HOURS_MIN", def.BuildHoursMin),
		BuildHoursMax:        env("BUILD_HOURS_MAX", def.BuildHoursMax),
		SoakerHydrationMin:   env("SOAKER_HYDRATION_MIN", def.SoakerHydrationMin),
		SoakerHydrationMax:   env("SOAKER_HYDRATION_MAX", def.SoakerHydrationMax),
		SoakHoursMin:         env("SOAK_HOURS_MIN", def.SoakHoursMin),
		InclusionMax:         env("INCLUSION_MAX", def.InclusionMax),
		EnrichmentMax:        env("ENRICHMENT_MAX", def.EnrichmentMax),
	}
}

func (c AnalysisConfig) validate() error {
	bands := []struct {
		name   string
		values []float64
	}{
		{"hydration", []float64{c.HydrationErrorLow, c.HydrationWarningLow, c.HydrationWarningHigh, c.HydrationErrorHigh}},
		{"salt", []float64{c.SaltWarningLow, c.SaltInfoLow, c.SaltInfoHigh, c.SaltWarningHigh}},
		{"prefermented flour", []float64{c.PrefermentedInfo, c.PrefermentedWarning}},
		{"build hours", []float64{c.BuildHoursMin, c.BuildHoursMax}},
		{"soaker hydration", []float64{c.SoakerHydrationMin, c.SoakerHydrationMax}},
	}
	for _, band := range bands {
		for i := 1; i < len(band.values); i++ {
			if band.values[i] < band.values[i-1] {
				return fmt.Errorf("analysis %s thresholds must be ascending: %v", band.name, band.values)
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseFloatWithDefault(value string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}
