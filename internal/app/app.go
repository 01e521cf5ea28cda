package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/webring/internal/bootstrap"
	"github.com/MrSnakeDoc/webring/internal/config"
	"github.com/MrSnakeDoc/webring/internal/dom"
	"github.com/MrSnakeDoc/webring/internal/httpserver"
	"github.com/MrSnakeDoc/webring/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webring/internal/index"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/redis"
	"github.com/MrSnakeDoc/webring/internal/render"
	"github.com/MrSnakeDoc/webring/internal/scheduler"
	"github.com/MrSnakeDoc/webring/internal/sources/webring"
	redisstore "github.com/MrSnakeDoc/webring/internal/store/redis"
	"github.com/MrSnakeDoc/webring/internal/version"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    *redisstore.Store
	reloader *scheduler.PresetReloader
}

// NewBootstrapper wires the data-source client, fetcher and renderer.
// recorder and policy may be nil; a nil policy reads any source.
func NewBootstrapper(cfg *config.Config, log logger.Logger, recorder bootstrap.Recorder, policy *webring.SourcePolicy) *bootstrap.Bootstrapper {
	clientOpts := []webring.Option{
		webring.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
		webring.WithSourcePolicy(policy),
	}
	if cfg.UpstreamUserAgent != "" {
		clientOpts = append(clientOpts, webring.WithUserAgent(cfg.UpstreamUserAgent))
	}
	client := webring.NewClient(clientOpts...)

	defaults := widget.DefaultConfiguration()
	defaults.DataSource = cfg.DefaultDataSource

	opts := []bootstrap.Option{bootstrap.WithDefaults(defaults)}
	if recorder != nil {
		opts = append(opts, bootstrap.WithRecorder(recorder))
	}
	return bootstrap.New(widget.NewFetcher(client, log), render.New(log), log, opts...)
}

// OperatorSources lists the sources set by the operator: the default source
// and every preset source. presetIndex may be nil.
func OperatorSources(defaultSource string, presetIndex *index.MemoryIndex) func() []string {
	return func() []string {
		sources := []string{defaultSource}
		if presetIndex != nil {
			sources = append(sources, presetIndex.Sources()...)
		}
		return sources
	}
}

func New(cfg *config.Config, loggerClient logger.Logger) *App {
	// Impression stats are optional; the widget works without Redis.
	var store *redisstore.Store
	if cfg.StatsEnabled() {
		client, err := redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("impression stats disabled, redis unavailable", logger.Error(err))
		} else {
			store = redisstore.NewStore(client, cfg.DefaultDataSource)
		}
	} else {
		loggerClient.Info("WEBRING_REDIS_ADDR not set, impression stats disabled")
	}

	var recorder bootstrap.Recorder
	if store != nil {
		recorder = store
	}

	var presetIndex *index.MemoryIndex
	if cfg.PresetsFile != "" {
		presetIndex = index.NewMemoryIndex()
	}
	policy := webring.NewSourcePolicy(cfg.AllowedSources, OperatorSources(cfg.DefaultDataSource, presetIndex))

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitBurst:    cfg.RateLimitBurst,
		RateLimitPerMin:   cfg.RateLimitPerMin,
		MaxPageBytes:      int64(cfg.MaxPageBytes),
		DefaultDataSource: cfg.DefaultDataSource,
		Booter:            NewBootstrapper(cfg, loggerClient, recorder, policy),
		Stats:             store,
	}

	var reloader *scheduler.PresetReloader
	if cfg.PresetsFile != "" {
		d.Presets = presetIndex
		d.ReloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewPresetReloader(
			cfg.PresetsFile,
			d.Presets,
			loggerClient,
			cfg.ReloadInterval,
			cfg.WatchPresets,
			d.ReloadTrigger,
		)
	} else {
		loggerClient.Info("presets file not configured, presets disabled")
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, d),
		store:    store,
		reloader: reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start presets reloader: %w", err)
		}
		a.logger.Info("presets reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval),
			logger.Bool("watch", a.cfg.WatchPresets))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if runErr == nil {
		a.logger.Info("✅ webring stopped cleanly")
	}
	return runErr
}

// RenderPage mounts the widget into the HTML page read from in and writes the
// result to out. Attributes come from the page's widget script tag, then
// overrides.
func RenderPage(ctx context.Context, cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer, overrides widget.MapAttributes) error {
	page, err := dom.Parse(in)
	if err != nil {
		return err
	}

	attrs, found := page.ScriptAttributes(bootstrap.ScriptName)
	if !found {
		log.Info("no widget script tag found, using command line attributes only")
	}

	// Command line input is trusted, file:// sources included.
	NewBootstrapper(cfg, log, nil, nil).Boot(ctx, page, attrs.With(overrides))

	if err := page.Render(out); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
