// Package monitor implements the registration monitor core: checkpointed
// chunked polling of the registry contract, dedupe, notification fan-out,
// analytics ingestion, and reconciliation.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ipnslabs/regmonitor/chains/evm"
	"github.com/ipnslabs/regmonitor/config"
	"github.com/ipnslabs/regmonitor/notifier"
	"github.com/ipnslabs/regmonitor/store"
)

// Monitor is the facade over the registration monitor core. All state file
// access goes through it; the mutex serializes every load-mutate-save cycle
// so the poll job and analytics ingestion never race on the snapshot.
type Monitor struct {
	cfg      *config.Config
	chain    ChainClient
	notifier Notifier
	logger   zerolog.Logger

	mu sync.Mutex
}

// New creates a monitor. The chain client and notifier may be nil for
// read-only use (queries and reconciliation never touch them).
func New(cfg *config.Config, chain ChainClient, n Notifier, logger zerolog.Logger) *Monitor {
	return &Monitor{
		cfg:      cfg,
		chain:    chain,
		notifier: n,
		logger:   logger.With().Str("component", "registration_monitor").Logger(),
	}
}

// PollResult aggregates one poll cycle.
type PollResult struct {
	Processed     int                `json:"processed"`
	Deduped       int                `json:"deduped"`
	LatestBlock   uint64             `json:"latestBlock"`
	Notifications []notifier.Payload `json:"notifications"`
}

// PollOnce scans [max(deployBlock, watermark+1), head] in ascending chunks,
// decodes and dedupes registration logs, attempts best-effort notification
// for each new event, and persists the advanced watermark once every chunk
// has been handled. Any fetch error aborts the whole cycle before the
// persist, so the next cycle rescans from the same floor.
//
// Because notification happens before the persist, delivery is at-least-once:
// a cycle that fails after notifying re-notifies on the next success.
// Notification consumers must be idempotent on the dedupe key.
func (m *Monitor) PollOnce(ctx context.Context) (*PollResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := store.Load(m.cfg.StatePath)
	seen := state.SeenSet()

	latest, err := m.chain.LatestBlockHeight(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get latest block height")
	}

	fromBlock := m.cfg.DeployBlock
	if next := state.LastProcessedBlock + 1; next > fromBlock {
		fromBlock = next
	}

	result := &PollResult{LatestBlock: latest}
	if fromBlock > latest {
		return result, nil
	}

	// Block timestamps are memoized per cycle; several events often share a block.
	blockTimes := make(map[uint64]time.Time)

	chunk := m.cfg.BlockChunk
	if chunk == 0 {
		chunk = 2000
	}

	for start := fromBlock; start <= latest; start += chunk {
		end := start + chunk - 1
		if end > latest {
			end = latest
		}

		logs, err := m.chain.FilterRegistrationLogs(ctx, start, end)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch logs [%d, %d]", start, end)
		}

		for i := range logs {
			event := evm.ParseRegistrationLog(&logs[i])
			if !event.Valid() {
				continue
			}
			if _, ok := seen[event.DedupeKey]; ok {
				result.Deduped++
				continue
			}

			blockTime, ok := blockTimes[event.BlockNumber]
			if !ok {
				blockTime, err = m.chain.BlockTime(ctx, event.BlockNumber)
				if err != nil {
					return nil, errors.Wrapf(err, "resolve timestamp for block %d", event.BlockNumber)
				}
				blockTimes[event.BlockNumber] = blockTime
			}

			payload := notifier.Payload{
				Name:      event.Name,
				Owner:     event.Owner,
				TxHash:    event.TxHash,
				BlockTime: blockTime,
				URL:       notifier.RegistrationURL(event.Name),
			}

			delivered := 0
			for _, res := range m.notifier.Notify(ctx, payload) {
				if res.Delivered() {
					delivered++
				}
			}
			m.logger.Info().
				Str("name", event.Name).
				Str("dedupe_key", event.DedupeKey).
				Int("delivered", delivered).
				Msg("processed registration")

			state.Events = append(state.Events, store.Registration{
				DedupeKey:   event.DedupeKey,
				Name:        event.Name,
				Owner:       event.Owner,
				TxHash:      event.TxHash,
				BlockNumber: event.BlockNumber,
				LogIndex:    event.LogIndex,
				BlockTime:   blockTime,
				URL:         payload.URL,
			})
			state.Seen = append(state.Seen, event.DedupeKey)
			seen[event.DedupeKey] = struct{}{}

			result.Processed++
			result.Notifications = append(result.Notifications, payload)
		}
	}

	state.LastProcessedBlock = latest
	state.Trim(m.cfg.MaxEvents, m.cfg.MaxAnalytics)
	if err := store.Save(m.cfg.StatePath, state); err != nil {
		return nil, errors.Wrap(err, "persist state")
	}

	return result, nil
}
