package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/pulsar/pkg/whatpulse"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Totals              whatpulse.AccountTotals
	HasTotals           bool
	Unpulsed            whatpulse.UnpulsedStats
	HasUnpulsed         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures

	LastPulse      time.Time // When a pulse was last requested
	LastPulseError error
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Projected returns totals with the unpulsed counters merged in.
func (s Snapshot) Projected() whatpulse.AccountTotals {
	return s.Totals.Projected(s.Unpulsed)
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored stats. When err is non-nil the previous data is
// kept but the error is recorded for visibility. It returns the consecutive
// failure count after this update.
func (s *Store) Update(totals *whatpulse.AccountTotals, unpulsed *whatpulse.UnpulsedStats, err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return s.snapshot.ConsecutiveFailures
	}

	if totals != nil {
		s.snapshot.Totals = *totals
		s.snapshot.HasTotals = true
	} else {
		s.snapshot.HasTotals = false
	}
	if unpulsed != nil {
		s.snapshot.Unpulsed = *unpulsed
		s.snapshot.HasUnpulsed = true
	} else {
		s.snapshot.HasUnpulsed = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return 0
}

// RecordPulse notes that a pulse was requested at the given time and how
// the request ended. A nil err does not mean the pulse was accepted.
func (s *Store) RecordPulse(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastPulse = at
	s.snapshot.LastPulseError = err
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.LastPulseError != nil {
		snap.LastPulseError = fmt.Errorf("%w", s.snapshot.LastPulseError)
	}
	return snap
}
