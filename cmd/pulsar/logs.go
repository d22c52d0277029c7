package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pulsar/internal/logtail"
)

func newLogsCmd(opts *globalOptions) *cobra.Command {
	var (
		lines int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the monitor's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			entries, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if !raw {
				entries = logtail.FormatLines(entries)
			}
			out := cmd.OutOrStdout()
			for _, line := range entries {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to print, 0 for all")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON lines as written")
	return cmd
}
