package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutProjectedWidth is the minimum width to show the projected column.
	LayoutProjectedWidth = 72
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines kept in memory.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// LogRefreshDebounce is the minimum time between log file reads while following.
	LogRefreshDebounce = 2 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// NoticeTTL is how long a transient notice stays in the header.
	NoticeTTL = 8 * time.Second
)
