package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/config"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/diaglog"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/state"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/ui"
)

const healthTimeout = 2 * time.Second

// Options configure the taskflow application.
type Options struct {
	ConfigPath   string
	RefreshEvery time.Duration // zero disables periodic refresh
}

// Run boots the taskflow TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := diaglog.New(diaglog.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, client, reg, err := build(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("taskflow starting",
		zap.String("api", client.BaseURL()),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("locale", cfg.Locale),
	)

	if cfg.MetricsAddr != "" {
		if err := serveMetrics(ctx, cfg.MetricsAddr, reg, logger); err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
	}

	checkHealth(ctx, client, logger)

	if opts.RefreshEvery > 0 {
		StartRefresher(ctx, store, opts.RefreshEvery, logger)
	}

	// Populate the store before the UI starts; failures surface in the header.
	_, _ = store.FetchAll(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		BaseURL:   client.BaseURL(),
		ThemeName: cfg.Theme,
		LogPath:   cfg.LogFile,
	})
}

// build wires the transport client and the store from cfg.
func build(cfg config.Config, logger *zap.Logger) (*state.Store, *api.Client, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	metrics, err := api.NewMetrics(reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("register metrics: %w", err)
	}

	client, err := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger.Named("api")),
		api.WithMetrics(metrics),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init api client: %w", err)
	}

	store := state.New(client,
		state.WithLogger(logger.Named("store")),
		state.WithMessages(state.MessagesFor(cfg.Locale)),
	)
	return store, client, reg, nil
}

// checkHealth logs whether the API answers its health endpoint. The UI
// starts either way.
func checkHealth(ctx context.Context, client *api.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health, err := client.Health(ctx)
	switch {
	case err != nil:
		logger.Warn("api unreachable", zap.String("api", client.BaseURL()), zap.Error(err))
	case !health.Healthy():
		logger.Warn("api reports unhealthy", zap.String("status", health.Status))
	default:
		logger.Info("api healthy")
	}
}
