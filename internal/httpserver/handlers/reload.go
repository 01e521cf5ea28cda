package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/utils"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload asks the presets reloader to reread its file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeError(w, http.StatusNotFound, "presets are disabled")
			return
		}

		ip := utils.ClientIP(r, d.TrustProxy)
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual presets reload triggered via endpoint", logger.String("client_ip", ip))
			writeJSON(w, http.StatusAccepted, reloadResponse{Triggered: true, Message: "reload triggered"})
		default:
			d.Logger.Warn("presets reload already pending", logger.String("client_ip", ip))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Message: "reload already pending, please wait"})
		}
	}
}
