// cron/poll_job.go
package cron

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ipnslabs/regmonitor/monitor"
)

// Poller runs one scan cycle of the registration monitor.
type Poller interface {
	PollOnce(ctx context.Context) (*monitor.PollResult, error)
}

// PollJob drives the poller on a fixed interval. A failed cycle is logged
// and retried by the next tick; the unadvanced watermark makes the retry a
// rescan of the same range.
type PollJob struct {
	poller       Poller
	interval     time.Duration
	perPollLimit time.Duration
	logger       zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	forceCh chan struct{}
	wg      sync.WaitGroup
}

func NewPollJob(p Poller, interval, perPollLimit time.Duration, logger zerolog.Logger) *PollJob {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if perPollLimit <= 0 {
		perPollLimit = time.Minute
	}
	return &PollJob{
		poller:       p,
		interval:     interval,
		perPollLimit: perPollLimit,
		logger:       logger.With().Str("component", "poll_cron").Logger(),
	}
}

// Start launches the background loop and returns immediately (non-blocking).
// Safe to call multiple times; subsequent calls are no-ops.
func (j *PollJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}
	if j.poller == nil {
		return errors.New("cron: poller must be non-nil")
	}

	j.stopCh = make(chan struct{})
	j.forceCh = make(chan struct{}, 1) // buffered so ForcePoll won't block
	j.running = true
	j.wg.Add(1)

	go j.run(ctx)
	return nil
}

// Stop signals the loop to exit and waits for it to finish.
// Safe to call multiple times.
func (j *PollJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	j.running = false
	j.mu.Unlock()
	j.wg.Wait()
}

// ForcePoll requests an immediate cycle without waiting for the next tick.
// Coalesces when a forced cycle is already pending.
func (j *PollJob) ForcePoll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	select {
	case j.forceCh <- struct{}{}:
	default:
	}
}

func (j *PollJob) run(parent context.Context) {
	defer j.wg.Done()

	// First cycle right away so a restart catches up without waiting a tick
	j.pollOnce(parent)

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-parent.Done():
			j.logger.Info().Msg("poll cron: context canceled; stopping")
			return
		case <-j.stopCh:
			j.logger.Info().Msg("poll cron: stop requested; stopping")
			return
		case <-t.C:
			j.pollOnce(parent)
		case <-j.forceCh:
			j.pollOnce(parent)
		}
	}
}

func (j *PollJob) pollOnce(parent context.Context) {
	timeout := j.perPollLimit
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain > 0 && remain < timeout {
			timeout = remain
		}
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	result, err := j.poller.PollOnce(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("poll cycle failed; will retry on next tick")
		return
	}

	if result.Processed > 0 {
		j.logger.Info().
			Int("processed", result.Processed).
			Int("deduped", result.Deduped).
			Uint64("latest_block", result.LatestBlock).
			Msg("poll cycle processed registrations")
		return
	}

	j.logger.Debug().
		Uint64("latest_block", result.LatestBlock).
		Int("deduped", result.Deduped).
		Msg("poll cycle complete")
}
