package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/five82/pulsar/internal/config"
	"github.com/five82/pulsar/internal/logging"
	"github.com/five82/pulsar/pkg/whatpulse"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	host       string
	port       int
	scheme     string
	timeout    time.Duration
}

func (o *globalOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "config file path (default ~/.config/pulsar/config.toml)")
	fs.StringVar(&o.host, "host", "", "WhatPulse client API host")
	fs.IntVar(&o.port, "port", 0, "WhatPulse client API port")
	fs.StringVar(&o.scheme, "scheme", "", "WhatPulse client API scheme (http or https)")
	fs.DurationVar(&o.timeout, "timeout", 0, "per-request timeout, e.g. 5s")
}

func (o *globalOptions) overrides() config.Overrides {
	return config.Overrides{
		Host:           o.host,
		Port:           o.port,
		Scheme:         o.scheme,
		RequestTimeout: o.timeout,
	}
}

func (o *globalOptions) validate() error {
	if o.port < 0 || o.port > 65535 {
		return fmt.Errorf("port %d out of range", o.port)
	}
	if o.timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.timeout)
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func (o *globalOptions) loadConfig() (config.Config, error) {
	if err := o.validate(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return o.overrides().Apply(cfg), nil
}

// session is what a one-shot command needs to talk to WhatPulse.
type session struct {
	cfg    config.Config
	client *whatpulse.Client
	logger *zap.Logger
}

func (o *globalOptions) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
	client, err := whatpulse.NewClient(append(cfg.ClientOptions(), whatpulse.WithUserAgent(userAgent()))...)
	if err != nil {
		return nil, fmt.Errorf("init whatpulse client: %w", err)
	}
	return &session{cfg: cfg, client: client, logger: logger}, nil
}

// requestContext bounds a single call by the configured request timeout.
func (s *session) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.cfg.RequestTimeout)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	watch := &watchOptions{}

	rootCmd := &cobra.Command{
		Use:   "pulsar",
		Short: "Monitor and pulse a local WhatPulse client",
		Long: "pulsar reads account totals and unpulsed stats from the WhatPulse " +
			"client API and can trigger a pulse. Without a subcommand it starts the monitor.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts, watch)
		},
	}

	opts.addFlags(rootCmd.PersistentFlags())
	watch.addFlags(rootCmd.Flags())

	rootCmd.AddCommand(
		newTotalsCmd(opts),
		newUnpulsedCmd(opts),
		newPulseCmd(opts),
		newWatchCmd(opts),
		newLogsCmd(opts),
	)
	return rootCmd
}
