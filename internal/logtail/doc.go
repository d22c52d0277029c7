// Package logtail reads the tail of the pulsar log file and renders its
// zap JSON lines for display.
//
// # Reading
//
// Read returns the last maxLines lines in one pass, for one-shot use such as
// `pulsar logs`. A missing file is not an error: the monitor may be started
// before anything was logged.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// Follower serves the live log view. It remembers how far it has read, so
// each Poll only reads bytes appended since the last one. If the file
// shrinks it starts over.
//
// # Formatting
//
// Each JSON line becomes
//
//	2025-06-01 12:00:05 WARN stats poll failed error="..." failures=2
//
// Extra fields are sorted by key. caller and stacktrace are dropped. Lines
// that are not JSON objects (panics, output from older versions) pass
// through unchanged.
package logtail
