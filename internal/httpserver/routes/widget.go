package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/webring/internal/httpserver/mw"
)

func init() { Register(registerWidget) }

func registerWidget(r chi.Router, d deps.Deps) {
	cors := r.With(mw.CORS(d.CORSOrigins))
	limited := cors.With(
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		}),
	)
	limited.Get("/widget", handlers.Widget(d))
	limited.Get("/widget/{preset}", handlers.WidgetPreset(d))
	limited.Post("/embed", handlers.Embed(d))

	cors.Options("/widget", handlers.NoContent)
	cors.Options("/widget/{preset}", handlers.NoContent)
	cors.Options("/embed", handlers.NoContent)
	cors.Get("/presets", handlers.Presets(d))
}
