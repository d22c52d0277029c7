// Package ui implements the pulsar monitor as a Bubble Tea program.
//
// # Architecture Overview
//
// Model owns all UI state and follows the Elm loop: Update handles key,
// resize, tick and result messages and View renders the whole screen from
// the model. Nothing in this package talks to WhatPulse directly: stats come
// from state.Store snapshots and the pulse and refresh keys go through the
// Actions interface, which the poller implements.
//
// # Package Structure
//
//   - app.go: Model, Options, Update loop, messages and Run
//   - header.go: status bar (connection state, endpoint, last update, last
//     pulse, errors) and the command bar
//   - stats.go: account table of totals, ranks, unpulsed and projected values
//   - logs.go: viewport over the pulsar log file with follow and search
//   - help.go: overlay generated from the key map
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Stats (s): one row per metric. Download and upload are megabyte
//     counters rendered in decimal or binary units (u). Uptime is seconds.
//   - Logs (l): tail of the zap JSON log rendered by logtail.FormatLine.
//
// # Event Flow
//
//  1. Init schedules the first tick and a snapshot read.
//  2. Every tick re-reads the store and, when following, polls a
//     logtail.Follower for lines appended since the last read.
//  3. p sends a pulse in a tea.Cmd; the result becomes a header notice. A
//     nil error only means WhatPulse answered, not that it pulsed.
//  4. T and u persist the new preference through prefs.Save.
//
// # Key Bindings
//
//   - p: Pulse now
//   - r: Refresh now
//   - s / l / tab: Stats view / Logs view / switch
//   - u: Toggle decimal/binary units
//   - T: Cycle theme
//   - j/k, g/G, ctrl+d/u, pgup/pgdown: Scroll logs
//   - Space: Toggle log follow
//   - /, n/N: Search logs, next/previous match
//   - h or ?: Help
//   - esc: Clear search or go back to stats
//   - q or ctrl+c: Quit
package ui
