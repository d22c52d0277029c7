package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPulseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pulse",
		Short: "Ask the WhatPulse client to pulse",
		Long: "Ask the WhatPulse client to submit its unpulsed stats. The client " +
			"answers before the pulse runs, so success cannot be confirmed here.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()

			if err := s.client.Pulse(ctx); err != nil {
				s.logger.Debug("pulse failed", zap.Error(err))
				return fmt.Errorf("pulse: %w", err)
			}
			s.logger.Debug("pulse requested", zap.String("api", s.client.BaseURL()))
			fmt.Fprintln(cmd.OutOrStdout(), "Pulse requested. WhatPulse does not report whether it succeeded.")
			return nil
		},
	}
}
