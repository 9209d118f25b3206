package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	applog "crumb/internal/log"
)

const (
	databaseOK           = "ok"
	databaseUnconfigured = "unconfigured"
	databaseUnreachable  = "unreachable"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health is a simple readiness handler suitable for infrastructure probes.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status:   "ok",
		Database: databaseStatus(r),
		Time:     nowFunc().UTC(),
	}
	status := http.StatusOK
	if resp.Database == databaseUnreachable {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		return
	}
	applog.Debug(r.Context(), "health check responded", "status", resp.Status)
}

func databaseStatus(r *http.Request) string {
	if database == nil {
		return databaseUnconfigured
	}
	sqlDB, err := database.DB()
	if err != nil {
		applog.Warn(r.Context(), "health check could not access database handle", "error", err)
		return databaseUnreachable
	}
	if err := sqlDB.PingContext(r.Context()); err != nil {
		applog.Warn(r.Context(), "health check database ping failed", "error", err)
		return databaseUnreachable
	}
	return databaseOK
}
