package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webring/internal/dom"
	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/render"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

// Widget renders the widget fragment (style block and widget element) for
// the attributes given in the query string. Widget failures still answer 200
// with the error markup.
func Widget(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, fragment(r.Context(), d, queryAttributes(r.URL.Query())))
	}
}

// WidgetPreset renders a fragment from a named preset; query attributes
// override the preset's.
func WidgetPreset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "preset")
		if d.Presets == nil {
			writeError(w, http.StatusNotFound, "presets are disabled")
			return
		}
		preset, ok := d.Presets.Get(name)
		if !ok {
			d.Logger.Debug("unknown preset", logger.String("preset", name))
			writeError(w, http.StatusNotFound, "unknown preset")
			return
		}

		attrs := preset.Attributes().With(queryAttributes(r.URL.Query()))
		writeHTML(w, fragment(r.Context(), d, attrs))
	}
}

type presetsResponse struct {
	Presets map[string]widget.MapAttributes `json:"presets"`
}

// Presets lists the loaded presets with their attributes.
func Presets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := presetsResponse{Presets: map[string]widget.MapAttributes{}}
		if d.Presets != nil {
			for _, name := range d.Presets.Names() {
				if p, ok := d.Presets.Get(name); ok {
					resp.Presets[name] = p.Attributes()
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// fragment boots the widget on a blank page and returns what it inserted.
func fragment(ctx context.Context, d deps.Deps, attrs widget.Attributes) string {
	page := dom.NewBlankPage()
	d.Booter.Boot(ctx, page, attrs)

	var b strings.Builder
	if style, ok := page.OuterHTML(render.StyleID); ok {
		b.WriteString(style)
		b.WriteByte('\n')
	}
	if markup, ok := page.OuterHTML(render.WidgetID); ok {
		b.WriteString(markup)
	}
	return b.String()
}
