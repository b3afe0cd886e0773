package monitor

import (
	"time"

	"github.com/ipnslabs/regmonitor/store"
)

const (
	maxRecentLimit     = 50
	defaultWindowHours = 24
)

// RecentRegistrations returns the most recently processed registrations,
// newest first. The limit is clamped to [1, 50]; non-positive values mean
// the default of 50.
func (m *Monitor) RecentRegistrations(limit int) []store.Registration {
	if limit <= 0 || limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	m.mu.Lock()
	state := store.Load(m.cfg.StatePath)
	m.mu.Unlock()

	events := state.Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}

	recent := make([]store.Registration, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		recent = append(recent, events[i])
	}
	return recent
}

// Reconciliation computes the mismatch report over the trailing window.
// Non-positive hours mean the default of 24.
func (m *Monitor) Reconciliation(hours int) Report {
	if hours <= 0 {
		hours = defaultWindowHours
	}

	m.mu.Lock()
	state := store.Load(m.cfg.StatePath)
	m.mu.Unlock()

	return ComputeReconciliation(state, hours, time.Now().UTC())
}
