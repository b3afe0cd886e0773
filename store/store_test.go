package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	state := Load(filepath.Join(t.TempDir(), "missing.json"))

	require.NotNil(t, state)
	assert.Equal(t, uint64(0), state.LastProcessedBlock)
	assert.Empty(t, state.Seen)
	assert.Empty(t, state.Events)
	assert.Empty(t, state.Analytics)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lastProcessedBlock": 42, "seen": [truncated`), 0o600))

	state := Load(path)
	assert.Equal(t, uint64(0), state.LastProcessedBlock)
	assert.Empty(t, state.Seen)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	blockTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	state := &State{
		LastProcessedBlock: 42383700,
		Seen:               []string{"0xabc:0", "0xdef:3"},
		Events: []Registration{
			{
				DedupeKey:   "0xabc:0",
				Name:        "alice",
				Owner:       "0x1234567890abcdef1234567890abcdef12345678",
				TxHash:      "0xabc",
				BlockNumber: 42383650,
				LogIndex:    0,
				BlockTime:   blockTime,
				URL:         "https://alice.ipns.io",
			},
		},
		Analytics: []AnalyticsRecord{
			{Name: "alice", Owner: "0x1234", TxHash: "0xabc", ReceivedAt: blockTime},
		},
	}

	require.NoError(t, Save(path, state))

	loaded := Load(path)
	assert.Equal(t, state, loaded)
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, Save(path, &State{LastProcessedBlock: 1}))
	require.NoError(t, Save(path, &State{LastProcessedBlock: 2}))

	loaded := Load(path)
	assert.Equal(t, uint64(2), loaded.LastProcessedBlock)

	// no temp file left behind
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestTrim(t *testing.T) {
	state := &State{}
	for i := 0; i < 10; i++ {
		state.Events = append(state.Events, Registration{DedupeKey: string(rune('a' + i))})
		state.Analytics = append(state.Analytics, AnalyticsRecord{Name: string(rune('a' + i))})
	}

	state.Trim(3, 5)

	require.Len(t, state.Events, 3)
	assert.Equal(t, "h", state.Events[0].DedupeKey) // newest kept, oldest dropped
	assert.Equal(t, "j", state.Events[2].DedupeKey)
	require.Len(t, state.Analytics, 5)
	assert.Equal(t, "f", state.Analytics[0].Name)
}

func TestTrimUnderCap(t *testing.T) {
	state := &State{Events: []Registration{{DedupeKey: "a"}}}
	state.Trim(1000, 5000)
	assert.Len(t, state.Events, 1)
}

func TestSeenSet(t *testing.T) {
	state := &State{Seen: []string{"a", "b", "a"}}
	set := state.SeenSet()
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
}
