// Package state provides thread-safe state sharing between the poller and the UI.
//
// # Overview
//
// The background poller writes the latest WhatPulse account totals and
// unpulsed stats into a Store; the Bubble Tea model reads Snapshot copies on
// every tick. The Store is the only place the two goroutines meet.
//
//	Producer (poller):              Consumer (UI):
//	FetchAccountTotals() ─┐
//	FetchUnpulsedStats() ─┴─> store.Update() ──> store.Snapshot() ──> render
//	Pulse()  ──────────────> store.RecordPulse()
//
// # Update Semantics
//
//	// Success: replace stats, clear error, reset failure count
//	store.Update(&totals, &unpulsed, nil)
//
//	// Failure: keep previous stats, record error, count the failure
//	failures := store.Update(nil, nil, err)
//
// Update returns the failure count it just set, so callers that back off
// never read a count another update has already changed.
//
// Keeping the last good stats on failure lets the UI show stale numbers with
// an error marker instead of blanking out while the WhatPulse client
// restarts. IsOffline flips after two consecutive failures.
//
// # Pulse Bookkeeping
//
// RecordPulse stores when a pulse was last requested and the error, if any.
// The upstream never confirms a pulse, so a nil LastPulseError only means
// the request was answered.
//
// # Concurrency Model
//
// A sync.RWMutex guards the snapshot. Snapshot holds the read lock only
// while copying; errors are re-wrapped so callers never share the stored
// error value.
package state
