package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/pkg/whatpulse"
)

func sampleSnapshot() state.Snapshot {
	return state.Snapshot{
		Totals: whatpulse.AccountTotals{
			Keys:     1234567,
			Clicks:   89012,
			Download: 1500,
			Upload:   250,
			Uptime:   90061,
			Ranks: whatpulse.Ranks{
				Keys:   42,
				Clicks: 7,
			},
		},
		HasTotals: true,
		Unpulsed: whatpulse.UnpulsedStats{
			Keys:     33,
			Download: 500,
			Uptime:   60,
		},
		HasUnpulsed: true,
	}
}

func TestStatsRows(t *testing.T) {
	rows := statsRows(sampleSnapshot(), false)
	if len(rows) != 5 {
		t.Fatalf("statsRows returned %d rows, want 5", len(rows))
	}

	keys := rows[0]
	if keys.metric != "keys" || keys.total != "1,234,567" || keys.rank != "#42" || keys.unpulsed != "33" || keys.projected != "1,234,600" {
		t.Fatalf("keys row = %+v", keys)
	}
	download := rows[2]
	if download.total != "1.50 GB" || download.unpulsed != "500 MB" || download.projected != "2.00 GB" {
		t.Fatalf("download row = %+v", download)
	}
	upload := rows[3]
	if upload.rank != "-" {
		t.Fatalf("unranked upload rank = %q, want -", upload.rank)
	}
	uptime := rows[4]
	if uptime.total != "1d 1h 1m" || uptime.unpulsed != "1m" || uptime.projected != "1d 1h 2m" {
		t.Fatalf("uptime row = %+v", uptime)
	}
}

func TestStatsRows_BinaryUnits(t *testing.T) {
	snap := sampleSnapshot()
	snap.Totals.Download = 2048
	rows := statsRows(snap, true)
	if got := rows[2].total; got != "2.00 GiB" {
		t.Fatalf("binary download = %q, want 2.00 GiB", got)
	}
}

func TestStatsRows_WithoutUnpulsed(t *testing.T) {
	snap := sampleSnapshot()
	snap.HasUnpulsed = false
	for _, row := range statsRows(snap, false) {
		if row.unpulsed != "-" {
			t.Fatalf("%s unpulsed = %q, want -", row.metric, row.unpulsed)
		}
		if row.projected != row.total {
			t.Fatalf("%s projected = %q, want total %q", row.metric, row.projected, row.total)
		}
	}
}

func TestColumnWidths(t *testing.T) {
	w := columnWidths([]statRow{
		statHeaders,
		{label: "Download", total: "1,234,567", rank: "#1", unpulsed: "0", projected: "1"},
	})
	if w[0] != len("Download") || w[1] != len("1,234,567") || w[3] != len("Unpulsed") || w[4] != len("Projected") {
		t.Fatalf("columnWidths = %v", w)
	}
}

func TestPulseHint(t *testing.T) {
	pending := sampleSnapshot()

	submitted := sampleSnapshot()
	submitted.Unpulsed = whatpulse.UnpulsedStats{}

	pulsed := sampleSnapshot()
	pulsed.LastPulse = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	failed := pulsed
	failed.LastPulseError = errors.New("refused")

	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"pending stats", pending, "Press p to pulse now"},
		{"nothing pending", submitted, "Nothing to pulse"},
		{"pulse requested", pulsed, "Pulse requested at 09:30:00"},
		{"pulse failed", failed, "Press p to pulse now"},
	}
	for _, tt := range tests {
		if got := pulseHint(tt.snap); !strings.Contains(got, tt.want) {
			t.Errorf("%s: pulseHint = %q, want it to contain %q", tt.name, got, tt.want)
		}
	}
}
