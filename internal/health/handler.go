package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Checker is anything that can report on a dependency's health.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Handler returns an HTTP handler for the /health endpoint. It reports
// healthy when the backend check passes and degraded (still 200, so a
// flapping backend does not restart the daemon) when it fails.
func Handler(backend Checker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		if err := backend.HealthCheck(ctx); err != nil {
			status = "degraded"
			logger.Warn("backend health check failed", "error", err.Error())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
			logger.Error("failed to write health response", "error", err.Error())
		}
	}
}
