// Package bootstrap runs the widget pipeline once per page load.
package bootstrap

import (
	"context"

	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/render"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

const (
	// BootFlag is the page-level flag that marks the widget as started.
	BootFlag = "Saturn91WebringWidget"
	// ScriptName is matched against script src attributes to find the
	// widget's inclusion tag in a host page.
	ScriptName = "widget.js"
)

// Page is a document that can host the widget.
type Page interface {
	render.Document
	Loading() bool
	OnReady(fn func())
	ClaimFlag(name string) bool
}

// Recorder receives the state of every successful render along with the
// data source it was read from.
type Recorder interface {
	RecordImpressions(ctx context.Context, dataSource string, state widget.RenderState) error
}

type Bootstrapper struct {
	fetcher  *widget.Fetcher
	renderer *render.Renderer
	logger   logger.Logger
	defaults widget.Configuration
	recorder Recorder
}

type Option func(*Bootstrapper)

// WithDefaults replaces the configuration used for absent attributes.
func WithDefaults(cfg widget.Configuration) Option {
	return func(b *Bootstrapper) { b.defaults = cfg }
}

func WithRecorder(r Recorder) Option {
	return func(b *Bootstrapper) { b.recorder = r }
}

func New(fetcher *widget.Fetcher, renderer *render.Renderer, log logger.Logger, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		fetcher:  fetcher,
		renderer: renderer,
		logger:   log,
		defaults: widget.DefaultConfiguration(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Boot claims the page and runs the pipeline, right away or once the page
// finishes loading. It returns false when the page was already claimed.
func (b *Bootstrapper) Boot(ctx context.Context, page Page, attrs widget.Attributes) bool {
	if !page.ClaimFlag(BootFlag) {
		b.logger.Debug("webring widget already initialized")
		return false
	}

	if page.Loading() {
		b.logger.Debug("document loading, deferring widget init")
		page.OnReady(func() { b.run(ctx, page, attrs) })
		return true
	}

	b.run(ctx, page, attrs)
	return true
}

func (b *Bootstrapper) run(ctx context.Context, page Page, attrs widget.Attributes) {
	cfg := widget.ResolveWithDefaults(attrs, b.defaults, b.logger)
	state := b.fetcher.FetchAll(ctx, cfg)

	markup, err := b.renderer.Render(state)
	if err != nil {
		b.logger.Error("failed to render webring widget", logger.Error(err))
		return
	}

	if _, err := b.renderer.ApplyStyles(page, cfg.Color, cfg.BackgroundColor, cfg.Border); err != nil {
		b.logger.Error("failed to apply webring styles", logger.Error(err))
	}

	if _, err := b.renderer.Mount(page, markup); err != nil {
		b.logger.Error("failed to mount webring widget", logger.Error(err))
		return
	}

	if b.recorder != nil && !state.Failed {
		if err := b.recorder.RecordImpressions(ctx, cfg.DataSource, state); err != nil {
			b.logger.Warn("failed to record impressions", logger.Error(err))
		}
	}
}
