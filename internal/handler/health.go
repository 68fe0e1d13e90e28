package handler

import (
	"database/sql"
	"net/http"

	"github.com/mvargas/campana-go/internal/version"
)

// Healthz answers liveness probes. The database ping makes it a cheap
// readiness check as well.
func Healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	}
}
