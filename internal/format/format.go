// Package format renders WhatPulse counters for humans.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Count renders n with thousands separators: 1234567 -> "1,234,567".
func Count(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Rank renders a leaderboard position; zero means unranked.
func Rank(n uint64) string {
	if n == 0 {
		return "-"
	}
	return "#" + Count(n)
}

// Megabytes renders a megabyte counter in decimal (MB/GB/TB) or binary
// (MiB/GiB/TiB) units.
func Megabytes(mb uint64, binary bool) string {
	base := 1000.0
	units := []string{"MB", "GB", "TB", "PB"}
	if binary {
		base = 1024.0
		units = []string{"MiB", "GiB", "TiB", "PiB"}
	}

	value := float64(mb)
	idx := 0
	for value >= base && idx < len(units)-1 {
		value /= base
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d %s", mb, units[0])
	}
	return fmt.Sprintf("%.2f %s", value, units[idx])
}

// Uptime renders a second counter as "3d 4h 5m"; under a minute it shows seconds.
func Uptime(seconds uint64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " ")
}

// Since renders a timestamp as "15:04:05 (now)", "(5m ago)" or "(3h ago)".
// Zero times render as an empty string.
func Since(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	elapsed := now.Sub(t)
	out := t.Format("15:04:05")
	switch {
	case elapsed < time.Minute:
		out += " (now)"
	case elapsed < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(elapsed.Hours()))
	}
	return out
}
