package monitor

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipnslabs/regmonitor/store"
)

func TestRecordAnalyticsEvent(t *testing.T) {
	cfg := testConfig(t)
	m := New(cfg, nil, nil, disabledLogger())

	err := m.RecordAnalyticsEvent(AnalyticsSubmission{
		Name:       "alice",
		Owner:      "0x1234567890ABCDEF1234567890ABCDEF12345678",
		TxHash:     "0xABC",
		ReceivedAt: "2026-03-14T09:26:53Z",
	})
	require.NoError(t, err)

	state := store.Load(cfg.StatePath)
	require.Len(t, state.Analytics, 1)
	record := state.Analytics[0]
	assert.Equal(t, "alice", record.Name)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", record.Owner)
	assert.Equal(t, "0xabc", record.TxHash)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), record.ReceivedAt)
}

func TestRecordAnalyticsEventStampsReceivedAt(t *testing.T) {
	cfg := testConfig(t)
	m := New(cfg, nil, nil, disabledLogger())

	before := time.Now().UTC()
	require.NoError(t, m.RecordAnalyticsEvent(AnalyticsSubmission{
		Name: "alice", Owner: "0x1", TxHash: "0x2",
	}))

	state := store.Load(cfg.StatePath)
	require.Len(t, state.Analytics, 1)
	assert.False(t, state.Analytics[0].ReceivedAt.Before(before))
}

func TestRecordAnalyticsEventValidation(t *testing.T) {
	cfg := testConfig(t)
	m := New(cfg, nil, nil, disabledLogger())

	tests := []struct {
		name string
		sub  AnalyticsSubmission
	}{
		{"missing name", AnalyticsSubmission{Owner: "0x1", TxHash: "0x2"}},
		{"blank name", AnalyticsSubmission{Name: "   ", Owner: "0x1", TxHash: "0x2"}},
		{"missing owner", AnalyticsSubmission{Name: "alice", TxHash: "0x2"}},
		{"missing txHash", AnalyticsSubmission{Name: "alice", Owner: "0x1"}},
		{"bad receivedAt", AnalyticsSubmission{Name: "alice", Owner: "0x1", TxHash: "0x2", ReceivedAt: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.RecordAnalyticsEvent(tt.sub)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}

	// nothing was persisted for rejected submissions
	state := store.Load(cfg.StatePath)
	assert.Empty(t, state.Analytics)
}

func TestRecordAnalyticsEventCapsHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxAnalytics = 2
	m := New(cfg, nil, nil, disabledLogger())

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.RecordAnalyticsEvent(AnalyticsSubmission{
			Name: name, Owner: "0x1", TxHash: "0x2",
		}))
	}

	state := store.Load(cfg.StatePath)
	require.Len(t, state.Analytics, 2)
	assert.Equal(t, "b", state.Analytics[0].Name)
	assert.Equal(t, "c", state.Analytics[1].Name)
}
