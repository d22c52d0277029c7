package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/pulsar/internal/app"
)

type watchOptions struct {
	pollSeconds int
	prefsPath   string
}

func (o *watchOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.pollSeconds, "poll", 0, "refresh interval in seconds (optional, defaults to 2s)")
	fs.StringVar(&o.prefsPath, "prefs", "", "preferences file path (default ~/.config/pulsar/prefs.toml)")
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	watch := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Start the interactive monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts, watch)
		},
	}

	watch.addFlags(cmd.Flags())
	return cmd
}

func runWatch(cmd *cobra.Command, opts *globalOptions, watch *watchOptions) error {
	if watch.pollSeconds < 0 {
		return fmt.Errorf("poll interval must be positive, got %d", watch.pollSeconds)
	}
	if err := opts.validate(); err != nil {
		return err
	}

	overrides := opts.overrides()
	if watch.pollSeconds > 0 {
		overrides.PollInterval = time.Duration(watch.pollSeconds) * time.Second
	}

	return app.Run(cmd.Context(), app.Options{
		ConfigPath: opts.configPath,
		PrefsPath:  watch.prefsPath,
		Overrides:  overrides,
		UserAgent:  userAgent(),
	})
}
