package ui

import (
	"strings"

	"github.com/five82/pulsar/internal/format"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/state"
)

// statRow is one rendered line of the stats table.
type statRow struct {
	metric    string // key into Theme.MetricColors
	label     string
	total     string
	rank      string
	unpulsed  string
	projected string
}

var statHeaders = statRow{
	label:     "Metric",
	total:     "Total",
	rank:      "Rank",
	unpulsed:  "Unpulsed",
	projected: "Projected",
}

// statsRows turns a snapshot into display strings, one row per metric.
func statsRows(snap state.Snapshot, binary bool) []statRow {
	totals := snap.Totals
	ranks := totals.Ranks
	unpulsed := snap.Unpulsed
	projected := snap.Projected()

	bytes := func(v uint64) string { return format.Megabytes(v, binary) }
	rows := []struct {
		metric, label                     string
		total, rank, unpulsed, projected uint64
		render                            func(uint64) string
	}{
		{"keys", "Keys", totals.Keys, ranks.Keys, unpulsed.Keys, projected.Keys, format.Count},
		{"clicks", "Clicks", totals.Clicks, ranks.Clicks, unpulsed.Clicks, projected.Clicks, format.Count},
		{"download", "Download", totals.Download, ranks.Download, unpulsed.Download, projected.Download, bytes},
		{"upload", "Upload", totals.Upload, ranks.Upload, unpulsed.Upload, projected.Upload, bytes},
		{"uptime", "Uptime", totals.Uptime, ranks.Uptime, unpulsed.Uptime, projected.Uptime, format.Uptime},
	}

	out := make([]statRow, 0, len(rows))
	for _, r := range rows {
		row := statRow{
			metric:    r.metric,
			label:     r.label,
			total:     r.render(r.total),
			rank:      format.Rank(r.rank),
			unpulsed:  "-",
			projected: r.render(r.total),
		}
		if snap.HasUnpulsed {
			row.unpulsed = r.render(r.unpulsed)
			row.projected = r.render(r.projected)
		}
		out = append(out, row)
	}
	return out
}

// renderStats renders the account stats view.
func (m Model) renderStats() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	contentHeight := m.height - 2
	innerWidth := max(m.width-4, 0)

	if !m.snapshot.HasTotals {
		msg := "Waiting for the WhatPulse client at " + m.config.Endpoint()
		if m.snapshot.LastError != nil {
			msg = "WhatPulse unavailable: " + m.snapshot.LastError.Error()
		}
		body := bg.FillLine(bg.Render(truncate(msg, innerWidth), styles.MutedText), innerWidth)
		return m.renderBox("Account", body, m.width, contentHeight, true)
	}

	rows := statsRows(m.snapshot, m.prefs.Units == prefs.UnitsBinary)
	showProjected := m.width >= LayoutProjectedWidth

	widths := columnWidths(append([]statRow{statHeaders}, rows...))
	line := func(r statRow, label, value func(string) string) string {
		cells := []string{
			label(padRight(r.label, widths[0])),
			value(padLeft(r.total, widths[1])),
			value(padLeft(r.rank, widths[2])),
			value(padLeft(r.unpulsed, widths[3])),
		}
		if showProjected {
			cells = append(cells, value(padLeft(r.projected, widths[4])))
		}
		return bg.FillLine(strings.Join(cells, bg.Spaces(3)), innerWidth)
	}

	header := func(s string) string { return bg.Render(s, styles.MutedText.Bold(true)) }
	var b strings.Builder
	b.WriteString(line(statHeaders, header, header))
	for _, r := range rows {
		b.WriteString("\n")
		metricStyle := styles.MetricStyle(r.metric)
		b.WriteString(line(r,
			func(s string) string { return bg.Render(s, metricStyle) },
			func(s string) string { return bg.Render(s, styles.Text) },
		))
	}

	b.WriteString("\n")
	b.WriteString(bg.FillLine("", innerWidth))
	b.WriteString("\n")
	hint := pulseHint(m.snapshot)
	b.WriteString(bg.FillLine(bg.Render(truncate(hint, innerWidth), styles.FaintText), innerWidth))

	return m.renderBox("Account", b.String(), m.width, contentHeight, true)
}

// pulseHint is the line under the stats table.
func pulseHint(snap state.Snapshot) string {
	switch {
	case !snap.LastPulse.IsZero() && snap.LastPulseError == nil:
		return "Pulse requested at " + snap.LastPulse.Format("15:04:05") +
			". WhatPulse does not report whether it went through."
	case snap.HasUnpulsed && snap.Unpulsed.IsZero():
		return "Nothing to pulse. All stats have been submitted."
	default:
		return "Unpulsed stats are sent with the next pulse. Press p to pulse now."
	}
}

// columnWidths returns the widest cell per column.
func columnWidths(rows []statRow) [5]int {
	var w [5]int
	for _, r := range rows {
		for i, cell := range []string{r.label, r.total, r.rank, r.unpulsed, r.projected} {
			if n := len([]rune(cell)); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}
