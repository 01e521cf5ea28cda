package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/webring/internal/index"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/sources/presets"
	"github.com/MrSnakeDoc/webring/internal/utils"
)

// watchDebounce lets editors finish writing before the file is read.
const watchDebounce = 150 * time.Millisecond

// PresetReloader keeps the preset index in sync with presets.yaml. It reloads
// on a ticker, on manual trigger and, when enabled, on file changes.
type PresetReloader struct {
	loader        *presets.Loader
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	watch         bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

func NewPresetReloader(
	presetsFile string,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	watch bool,
	manualTrigger chan struct{},
) *PresetReloader {
	return &PresetReloader{
		loader:        presets.NewLoader(presetsFile),
		index:         idx,
		logger:        log,
		interval:      interval,
		watch:         watch,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the presets once and then keeps reloading in the background
// until Stop is called or ctx is done.
func (pr *PresetReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var watcher *fsnotify.Watcher
	if pr.watch {
		w, err := pr.newWatcher()
		if err != nil {
			pr.logger.Warn("presets file watcher disabled", logger.Error(err))
		} else {
			watcher = w
		}
	}

	go pr.loop(ctx, watcher)
	return nil
}

// Stop stops the reloader and waits for its goroutine to exit.
func (pr *PresetReloader) Stop() {
	pr.stopOnce.Do(func() { close(pr.stopCh) })
	<-pr.doneCh
}

// Reload reads the presets file and replaces the index content. The index is
// left untouched when the file cannot be loaded.
func (pr *PresetReloader) Reload(_ context.Context) error {
	pr.logger.Info("reloading presets", logger.String("file", pr.loader.Path()))

	ps, err := pr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	pr.index.Update(ps)
	pr.logger.Info("loaded presets", logger.Int("count", len(ps)))
	return nil
}

// newWatcher watches the directory holding the presets file; editors often
// replace the file, which drops a watch set on the file itself.
func (pr *PresetReloader) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(pr.loader.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	pr.logger.Info("watching presets file for changes", logger.String("file", pr.loader.Path()))
	return w, nil
}

func (pr *PresetReloader) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(pr.doneCh)

	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		pending <-chan time.Time
	)
	if watcher != nil {
		defer utils.CloseLogged(watcher, pr.logger, "presets watcher")
		events, errs = watcher.Events, watcher.Errors
	}
	target := filepath.Clean(pr.loader.Path())

	reload := func(reason string) {
		if err := pr.Reload(ctx); err != nil {
			pr.logger.Error("failed to reload presets",
				logger.String("reason", reason),
				logger.Error(err))
		}
	}

	for {
		select {
		case <-ticker.C:
			reload("interval")
		case <-pr.manualTrigger:
			pr.logger.Info("manual reload triggered")
			reload("manual")
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pr.logger.Debug("presets file changed", logger.String("op", event.Op.String()))
				pending = time.After(watchDebounce)
			}
		case <-pending:
			pending = nil
			reload("file change")
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			pr.logger.Warn("presets watcher error", logger.Error(err))
		case <-pr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
