package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/webring/internal/config"
	"github.com/MrSnakeDoc/webring/internal/dom"
	"github.com/MrSnakeDoc/webring/internal/index"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/sources/presets"
	"github.com/MrSnakeDoc/webring/internal/sources/webring"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

func newRingServer(t *testing.T) *httptest.Server {
	t.Helper()
	files := map[string]string{
		"/index.json": `{"categories":["art","music"]}`,
		"/art.json":   `{"links":[{"owner":"Ada","url":"https://ada.example"}]}`,
		"/music.json": `{"links":[{"owner":"Cy","url":"https://cy.example"}]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderPage(t *testing.T) {
	srv := newRingServer(t)
	cfg := &config.Config{DefaultDataSource: srv.URL + "/"}

	page := `<html><head></head><body><main></main>
<script src="widget.js" data-categories="music" data-color="#00ff00"></script></body></html>`

	var out bytes.Buffer
	if err := RenderPage(context.Background(), cfg, logger.Nop(), strings.NewReader(page), &out, nil); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, ">Cy<") || strings.Contains(got, ">Ada<") {
		t.Errorf("script attributes not used:\n%s", got)
	}
	if !strings.Contains(got, "--widget-color: #00ff00;") {
		t.Error("color not applied")
	}
	// No container, so the widget lands at the end of body.
	if !strings.Contains(got, "</div></body>") {
		t.Errorf("widget should be appended to body:\n%s", got)
	}
}

func TestRenderPageOverrides(t *testing.T) {
	srv := newRingServer(t)
	cfg := &config.Config{DefaultDataSource: srv.URL + "/"}

	page := `<html><body><div id="saturn91-webring"></div><script src="widget.js" data-categories="music"></script></body></html>`

	var out bytes.Buffer
	err := RenderPage(context.Background(), cfg, logger.Nop(), strings.NewReader(page), &out,
		widget.MapAttributes{widget.AttrCategories: "art"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), ">Ada<") {
		t.Errorf("override not applied:\n%s", out.String())
	}
}

func TestNewBootstrapperUsesConfiguredSource(t *testing.T) {
	srv := newRingServer(t)
	cfg := &config.Config{DefaultDataSource: srv.URL + "/", UpstreamRPS: 100, UpstreamBurst: 1}

	var out bytes.Buffer
	err := RenderPage(context.Background(), cfg, logger.Nop(), strings.NewReader("<html><body></body></html>"), &out, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Empty request falls back to the first category of the configured source.
	if !strings.Contains(out.String(), ">Ada<") {
		t.Errorf("default source not used:\n%s", out.String())
	}
}

func writeFileRing(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.json": `{"categories":["local"]}`,
		"local.json": `{"links":[{"owner":"Disk","url":"https://disk.example"}]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return "file://" + filepath.ToSlash(dir) + "/"
}

func TestRenderPageReadsFileSources(t *testing.T) {
	cfg := &config.Config{DefaultDataSource: "https://unused.example/"}

	var out bytes.Buffer
	overrides := widget.MapAttributes{widget.AttrSource: writeFileRing(t)}
	if err := RenderPage(context.Background(), cfg, logger.Nop(), strings.NewReader("<html><body></body></html>"), &out, overrides); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), ">Disk<") {
		t.Errorf("command line file source not read:\n%s", out.String())
	}
}

func TestServerPolicyTrustsOnlyOperatorFileSources(t *testing.T) {
	ring := writeFileRing(t)
	srv := newRingServer(t)
	cfg := &config.Config{DefaultDataSource: srv.URL + "/", AllowedSources: []string{srv.URL + "/"}}

	presetIndex := index.NewMemoryIndex()
	policy := webring.NewSourcePolicy(cfg.AllowedSources, OperatorSources(cfg.DefaultDataSource, presetIndex))
	boot := NewBootstrapper(cfg, logger.Nop(), nil, policy)

	render := func(attrs widget.MapAttributes) string {
		page := dom.NewBlankPage()
		boot.Boot(context.Background(), page, attrs)
		return page.String()
	}

	if body := render(widget.MapAttributes{widget.AttrSource: ring}); strings.Contains(body, ">Disk<") {
		t.Errorf("request file source should be rejected:\n%s", body)
	}
	if body := render(widget.MapAttributes{}); !strings.Contains(body, ">Ada<") {
		t.Errorf("default source should stay readable:\n%s", body)
	}

	presetIndex.Update(map[string]presets.Preset{"local": {Source: ring}})
	if body := render(widget.MapAttributes{widget.AttrSource: ring}); !strings.Contains(body, ">Disk<") {
		t.Errorf("preset file source should be readable:\n%s", body)
	}
}
