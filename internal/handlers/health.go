package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/meular/internal/database"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// HealthReporter is satisfied by *database.DB
type HealthReporter interface {
	Health(ctx context.Context) database.Health
}

// Health serves the liveness report with pool statistics
func Health(reporter HealthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := reporter.Health(r.Context())
		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		pkghttp.WriteJSON(w, status, report)
	}
}
