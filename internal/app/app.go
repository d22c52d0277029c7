package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/pulsar/internal/config"
	"github.com/five82/pulsar/internal/logging"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/internal/ui"
	"github.com/five82/pulsar/pkg/whatpulse"
)

// Options configure the pulsar monitor.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pulsar/prefs.toml
	Overrides  config.Overrides
	UserAgent  string // empty uses the client default
}

// Run boots the pulsar TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = opts.Overrides.Apply(cfg)

	logger, closeLog, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLog()
	}()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := whatpulse.NewClient(append(cfg.ClientOptions(), whatpulse.WithUserAgent(opts.UserAgent))...)
	if err != nil {
		return fmt.Errorf("init whatpulse client: %w", err)
	}

	store := &state.Store{}
	poller := NewPoller(store, client, logger, cfg.RequestTimeout)

	logger.Info("pulsar starting",
		zap.String("endpoint", client.BaseURL()),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("request_timeout", cfg.RequestTimeout))

	// Populate the store before the first frame so the UI does not flash empty.
	poller.Refresh(ctx)
	poller.Start(ctx, cfg.PollInterval)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Actions:   poller,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
		Logger:    logger,
	})
	logger.Info("pulsar stopped")
	return err
}
