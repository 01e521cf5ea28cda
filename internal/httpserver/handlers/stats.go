package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/logger"
)

// Stats reports impression counters.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Stats == nil {
			writeError(w, http.StatusNotFound, "stats are disabled")
			return
		}

		stats, err := d.Stats.GetStats(r.Context())
		if err != nil {
			d.Logger.Error("failed to read stats", logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "stats unavailable")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
