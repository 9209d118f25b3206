// Package server assembles the HTTP stack: sessions, handler dependencies
// and the router.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"crumb/internal/analysis"
	"crumb/internal/handlers"
	applog "crumb/internal/log"
)

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultCookieName      = "crumb_session"
	shutdownTimeout        = 5 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr         string
	Session      SessionConfig
	Database     *gorm.DB
	Thresholds   analysis.Thresholds
	HistoryLimit int
}

// SessionConfig controls the session cookie. Zero values fall back to a
// twelve hour lifetime and the crumb_session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server owns the http.Server serving the workspace and the formula API.
type Server struct {
	httpServer *http.Server
}

// New wires the handler package to cfg and builds the server. It does not
// start listening.
func New(cfg Config) (*Server, error) {
	sessions := newSessionManager(cfg.Session)

	handlers.Configure(sessions, cfg.Database, handlers.Settings{
		Thresholds:   cfg.Thresholds,
		HistoryLimit: cfg.HistoryLimit,
	})

	applog.Debug(context.Background(), "server configured",
		"addr", cfg.Addr,
		"sessionCookie", sessions.Cookie.Name,
		"sessionLifetime", sessions.Lifetime.String(),
		"database", cfg.Database != nil,
		"historyLimit", cfg.HistoryLimit,
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           sessions.LoadAndSave(newRouter()),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultCookieName
	}

	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.Domain = cfg.CookieDomain
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure
	return sm
}

// Start listens on the configured address. It returns http.ErrServerClosed
// after Stop.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, giving up after five seconds.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	applog.Info(ctx, "server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
