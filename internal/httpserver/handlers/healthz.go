package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type widgetInfo struct {
	DefaultSource  string `json:"default_source"`
	PresetsEnabled bool   `json:"presets_enabled"`
	PresetCount    int    `json:"preset_count"`
	StatsEnabled   bool   `json:"stats_enabled"`
	StatsSource    string `json:"stats_source,omitempty"`
}

type healthzResponse struct {
	Status        string     `json:"status"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	Widget        widgetInfo `json:"widget"`
	Build         buildInfo  `json:"build"`
}

// Healthz reports liveness with the widget setup the process runs with.
// It never fails on a dependency; /readyz and /infra do that.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		info := widgetInfo{
			DefaultSource:  d.DefaultDataSource,
			PresetsEnabled: d.Presets != nil,
			StatsEnabled:   d.Stats != nil,
		}
		if d.Presets != nil {
			info.PresetCount = d.Presets.Count()
		}
		if d.Stats != nil {
			info.StatsSource = d.Stats.Source()
		}

		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Widget:        info,
			Build:         build,
		})
	}
}
