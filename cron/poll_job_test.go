package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipnslabs/regmonitor/monitor"
)

type countingPoller struct {
	calls  atomic.Int32
	err    error
	polled chan struct{}
}

func (p *countingPoller) PollOnce(ctx context.Context) (*monitor.PollResult, error) {
	p.calls.Add(1)
	select {
	case p.polled <- struct{}{}:
	default:
	}
	if p.err != nil {
		return nil, p.err
	}
	return &monitor.PollResult{Processed: 1, LatestBlock: 100}, nil
}

func waitForPoll(t *testing.T, p *countingPoller) {
	t.Helper()
	select {
	case <-p.polled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a poll cycle")
	}
}

func TestPollJobRunsImmediatelyOnStart(t *testing.T) {
	p := &countingPoller{polled: make(chan struct{}, 1)}
	job := NewPollJob(p, time.Hour, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Start(context.Background()))
	defer job.Stop()

	waitForPoll(t, p)
	assert.GreaterOrEqual(t, p.calls.Load(), int32(1))
}

func TestPollJobForcePoll(t *testing.T) {
	p := &countingPoller{polled: make(chan struct{}, 1)}
	job := NewPollJob(p, time.Hour, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Start(context.Background()))
	defer job.Stop()

	waitForPoll(t, p) // startup cycle
	job.ForcePoll()
	waitForPoll(t, p)

	assert.GreaterOrEqual(t, p.calls.Load(), int32(2))
}

func TestPollJobSurvivesPollErrors(t *testing.T) {
	p := &countingPoller{polled: make(chan struct{}, 1), err: assert.AnError}
	job := NewPollJob(p, 10*time.Millisecond, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Start(context.Background()))
	defer job.Stop()

	waitForPoll(t, p)
	waitForPoll(t, p) // keeps ticking after an error
}

func TestPollJobStartIsIdempotent(t *testing.T) {
	p := &countingPoller{polled: make(chan struct{}, 1)}
	job := NewPollJob(p, time.Hour, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Start(context.Background()))
	require.NoError(t, job.Start(context.Background()))
	job.Stop()
	job.Stop()
}

func TestPollJobRequiresPoller(t *testing.T) {
	job := NewPollJob(nil, time.Second, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))
	assert.Error(t, job.Start(context.Background()))
}
