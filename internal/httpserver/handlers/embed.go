package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/webring/internal/bootstrap"
	"github.com/MrSnakeDoc/webring/internal/dom"
	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/logger"
)

const defaultMaxPageBytes = 2 << 20

// Embed takes a host page in the request body and returns it with the widget
// mounted. Attributes come from the page's widget.js script tag; query
// parameters override them.
func Embed(d deps.Deps) http.HandlerFunc {
	limit := d.MaxPageBytes
	if limit <= 0 {
		limit = defaultMaxPageBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		page, err := dom.Parse(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "page too large")
				return
			}
			d.Logger.Debug("invalid host page", logger.Error(err))
			writeError(w, http.StatusBadRequest, "invalid html")
			return
		}

		attrs, found := page.ScriptAttributes(bootstrap.ScriptName)
		if !found {
			d.Logger.Debug("no widget script tag in host page, using query attributes only")
		}

		d.Booter.Boot(r.Context(), page, attrs.With(queryAttributes(r.URL.Query())))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if err := page.Render(w); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
