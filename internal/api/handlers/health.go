package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FUNC TO SHOW THE SERVICE BANNER
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Bank Statements V.02"))
}

// FUNC TO CHECK DATABASE HEALTH
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.Logger.WithError(err).Error("health check failed")
			utils.WriteError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
