package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/five82/pulsar/internal/format"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/pkg/whatpulse"
)

const logoText = "pulsar"

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasTotals {
		return m.renderConnectingHeader(styles, bg)
	}
	return styles.Header.Width(m.width).Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the connecting or error state before any
// totals have arrived.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render(logoText, styles.Logo),
			bg.Render("WHATPULSE "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
			bg.Render(m.config.Endpoint(), styles.FaintText),
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render(logoText, styles.Logo) + sep +
			bg.Render("Connecting to WhatPulse...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar once totals are known.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	now := m.now()

	parts := []string{bg.Render(logoText, styles.Logo)}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	if !compact {
		parts = append(parts,
			bg.Render("API:", styles.MutedText)+bg.Space()+
				bg.Render(m.config.Endpoint(), styles.Text))
	}

	if updated := format.Since(m.snapshot.LastUpdated, now); updated != "" {
		parts = append(parts, bg.Render(updated, styles.MutedText))
	}

	if !m.snapshot.LastPulse.IsZero() {
		pulseStyle := styles.InfoText
		label := format.Since(m.snapshot.LastPulse, now)
		if m.snapshot.LastPulseError != nil {
			pulseStyle = styles.DangerText
			label += " failed"
		}
		parts = append(parts,
			bg.Render("Pulse:", styles.MutedText)+bg.Space()+bg.Render(label, pulseStyle))
	}

	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	if m.notice.text != "" {
		noticeStyle := styles.AccentText
		if m.notice.isErr {
			noticeStyle = styles.WarningText
		}
		parts = append(parts,
			bg.Render("!", noticeStyle.Bold(true))+bg.Space()+
				bg.Render(truncate(m.notice.text, 60), noticeStyle))
	}

	return bg.Join(parts, "  ")
}

// classifyConnectionError returns a short label for the header.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, whatpulse.ErrAccessDenied):
		return "ACCESS DENIED"
	case errors.Is(err, whatpulse.ErrNotFound):
		return "UNSUPPORTED CLIENT"
	case errors.Is(err, whatpulse.ErrMethodNotAllowed):
		return "BAD METHOD"
	case errors.Is(err, whatpulse.ErrUnknownStatus):
		return "BAD STATUS"
	case errors.Is(err, whatpulse.ErrAPI):
		return "API ERROR"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	pulseLabel := "Pulse"
	if m.pulsing {
		pulseLabel = "Pulsing"
	}

	var commands []cmd
	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"j/k", "Scroll"},
			{"s", "Stats"},
			{"p", pulseLabel},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"p", pulseLabel},
			{"r", "Refresh"},
			{"u", unitsLabel(m.prefs.Units)},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLogs && m.logState.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.searchQuery, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func unitsLabel(units string) string {
	if units == prefs.UnitsBinary {
		return "MiB"
	}
	return "MB"
}
