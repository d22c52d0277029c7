package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/pulsar/internal/format"
	"github.com/five82/pulsar/pkg/whatpulse"
)

func newTotalsCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print account totals and ranks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()

			totals, err := s.client.FetchAccountTotals(ctx)
			if err != nil {
				s.logger.Debug("fetch account totals failed", zap.Error(err))
				return fmt.Errorf("fetch account totals: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), totals)
			}
			return writeTotals(cmd.OutOrStdout(), totals)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newUnpulsedCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "unpulsed",
		Short: "Print stats not yet submitted by a pulse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()

			unpulsed, err := s.client.FetchUnpulsedStats(ctx)
			if err != nil {
				s.logger.Debug("fetch unpulsed stats failed", zap.Error(err))
				return fmt.Errorf("fetch unpulsed stats: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), unpulsed)
			}
			return writeUnpulsed(cmd.OutOrStdout(), unpulsed)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeTotals(out io.Writer, t whatpulse.AccountTotals) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tTOTAL\tRANK")
	fmt.Fprintf(w, "Keys\t%s\t%s\n", format.Count(t.Keys), format.Rank(t.Ranks.Keys))
	fmt.Fprintf(w, "Clicks\t%s\t%s\n", format.Count(t.Clicks), format.Rank(t.Ranks.Clicks))
	fmt.Fprintf(w, "Download\t%s\t%s\n", format.Megabytes(t.Download, false), format.Rank(t.Ranks.Download))
	fmt.Fprintf(w, "Upload\t%s\t%s\n", format.Megabytes(t.Upload, false), format.Rank(t.Ranks.Upload))
	fmt.Fprintf(w, "Uptime\t%s\t%s\n", format.Uptime(t.Uptime), format.Rank(t.Ranks.Uptime))
	return w.Flush()
}

func writeUnpulsed(out io.Writer, u whatpulse.UnpulsedStats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tUNPULSED")
	fmt.Fprintf(w, "Keys\t%s\n", format.Count(u.Keys))
	fmt.Fprintf(w, "Clicks\t%s\n", format.Count(u.Clicks))
	fmt.Fprintf(w, "Download\t%s\n", format.Megabytes(u.Download, false))
	fmt.Fprintf(w, "Upload\t%s\n", format.Megabytes(u.Upload, false))
	fmt.Fprintf(w, "Uptime\t%s\n", format.Uptime(u.Uptime))
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
