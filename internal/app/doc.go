// Package app is the composition root for the pulsar monitor.
//
// # Overview
//
// Run wires configuration, logging, the WhatPulse client, the shared
// state.Store, the background Poller and the Bubble Tea UI together and
// blocks until the user quits or the context is cancelled.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load() + Overrides.Apply()
//	       ├─────> logging.NewFile()      zap JSON log (the TUI owns the terminal)
//	       ├─────> whatpulse.NewClient()
//	       ├─────> Poller.Refresh()       initial snapshot
//	       ├─────> Poller.Start()         background updates
//	       └─────> ui.Run()               blocks
//
// # Polling Behavior
//
// Each tick fetches account totals and unpulsed stats concurrently with an
// errgroup; the first failure cancels the sibling request. Successful polls
// replace the snapshot, failures keep the last good data and bump the
// failure counter. While failures accumulate the delay doubles per failure,
// capped at 30 seconds, so a stopped WhatPulse client is not hammered.
//
// Every request gets its own timeout (request_timeout in the config); the
// client library itself imposes none.
//
// # Pulsing
//
// PulseNow is what the UI calls for the pulse key. The upstream answers a
// pulse request without saying whether a pulse happened, so the store only
// records when it was requested and any error, then a refresh picks up the
// new totals if the pulse went through.
//
// # Error Handling
//
// Fatal errors are returned from Run: unreadable config, unwritable log file,
// invalid endpoint. Everything after startup is logged and surfaced in the
// header instead.
package app
