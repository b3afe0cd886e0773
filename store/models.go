// Package store owns the durable monitor snapshot: the last processed block
// watermark, the dedupe key set, and the bounded registration and analytics
// histories. The snapshot is a single JSON document written atomically; it is
// the only shared mutable resource in the monitor.
package store

import "time"

// State is the persisted processing state. A zero State is a valid
// bootstrap state.
type State struct {
	LastProcessedBlock uint64            `json:"lastProcessedBlock"` // inclusive scan watermark, monotonically non-decreasing
	Seen               []string          `json:"seen"`               // dedupe keys of every event ever notified from this file
	Events             []Registration    `json:"events"`             // processed registrations, oldest first, capped
	Analytics          []AnalyticsRecord `json:"analytics"`          // externally reported confirmations, oldest first, capped
}

// Registration is one processed on-chain name registration.
type Registration struct {
	DedupeKey   string    `json:"dedupeKey"` // lowercase tx hash + ":" + decimal log index
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	TxHash      string    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
	LogIndex    uint      `json:"logIndex"`
	BlockTime   time.Time `json:"blockTime"`
	URL         string    `json:"url"`
}

// AnalyticsRecord is one externally reported registration confirmation.
// Owner and TxHash are stored lowercased; the record is trusted at face value.
type AnalyticsRecord struct {
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	TxHash     string    `json:"txHash"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// SeenSet materializes the seen keys as a set for in-memory dedupe.
func (s *State) SeenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Seen))
	for _, key := range s.Seen {
		set[key] = struct{}{}
	}
	return set
}

// Trim caps the event and analytics histories to the most recent entries.
// Seen keys are deliberately not pruned; they must stay a superset of the
// capped events' dedupe keys so aged-out events are never re-notified.
func (s *State) Trim(maxEvents, maxAnalytics int) {
	s.Events = capRecent(s.Events, maxEvents)
	s.Analytics = capRecent(s.Analytics, maxAnalytics)
}

func capRecent[T any](items []T, max int) []T {
	if max <= 0 || len(items) <= max {
		return items
	}
	return items[len(items)-max:]
}
