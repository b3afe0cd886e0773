package monitor

import (
	"strings"
	"time"

	"github.com/ipnslabs/regmonitor/store"
)

// ValidationError marks a rejected analytics submission. This is the one
// hard-validation path in the core: the analytics reporter is external and
// possibly misbehaving, so bad input is surfaced, not silently dropped.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func errMissingField(field string) error {
	return &ValidationError{msg: "analytics event missing field: " + field}
}

// AnalyticsSubmission is a confirmation reported by the analytics pipeline.
// ReceivedAt is optional RFC 3339; empty means "now".
type AnalyticsSubmission struct {
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	TxHash     string `json:"txHash"`
	ReceivedAt string `json:"receivedAt,omitempty"`
}

// RecordAnalyticsEvent validates the submission, normalizes owner and tx hash
// to lowercase, stamps the received time, and appends it to the capped
// analytics history.
func (m *Monitor) RecordAnalyticsEvent(sub AnalyticsSubmission) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", sub.Name},
		{"owner", sub.Owner},
		{"txHash", sub.TxHash},
	} {
		if strings.TrimSpace(field.value) == "" {
			return errMissingField(field.name)
		}
	}

	receivedAt := time.Now().UTC()
	if sub.ReceivedAt != "" {
		parsed, err := time.Parse(time.RFC3339, sub.ReceivedAt)
		if err != nil {
			return &ValidationError{msg: "analytics event has invalid receivedAt: " + sub.ReceivedAt}
		}
		receivedAt = parsed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state := store.Load(m.cfg.StatePath)
	state.Analytics = append(state.Analytics, store.AnalyticsRecord{
		Name:       sub.Name,
		Owner:      strings.ToLower(sub.Owner),
		TxHash:     strings.ToLower(sub.TxHash),
		ReceivedAt: receivedAt,
	})
	state.Trim(m.cfg.MaxEvents, m.cfg.MaxAnalytics)

	return store.Save(m.cfg.StatePath, state)
}
