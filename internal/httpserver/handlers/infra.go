package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	Enabled       bool   `json:"enabled"`
	PresetsLoaded *int   `json:"presets_loaded,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Target        string `json:"target,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"data_source": {
				OK:      true,
				Enabled: true,
				Target:  d.DefaultDataSource,
			},
			"presets": checkPresets(d),
			"redis":   checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode is "degraded" when an enabled component is failing.
func determineMode(components map[string]componentStatus) string {
	for _, c := range components {
		if c.Enabled && !c.OK {
			return "degraded"
		}
	}
	return "optimal"
}

func checkPresets(d deps.Deps) componentStatus {
	if d.Presets == nil {
		return componentStatus{OK: true, Enabled: false}
	}

	count := d.Presets.Count()
	lastReload := "never"
	if t := d.Presets.GetLastReload(); !t.IsZero() {
		lastReload = t.Format("2006-01-02 15:04:05")
	}
	return componentStatus{
		OK:            count > 0,
		Enabled:       true,
		PresetsLoaded: &count,
		LastReload:    lastReload,
	}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Stats == nil {
		return componentStatus{OK: true, Enabled: false, Impact: "impression-stats-disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Stats.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Enabled: true,
			Impact:  "impressions-not-recorded",
			Error:   err.Error(),
		}
	}
	return componentStatus{OK: true, Enabled: true, Impact: "impressions-recorded"}
}
