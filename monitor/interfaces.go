package monitor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ipnslabs/regmonitor/notifier"
)

// ChainClient is the chain capability the poller depends on. All three calls
// may fail transiently; the poller does not retry, it aborts the cycle and
// the next scheduled poll resumes from the unadvanced watermark.
type ChainClient interface {
	LatestBlockHeight(ctx context.Context) (uint64, error)
	FilterRegistrationLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error)
	BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Notifier fans one payload out to the configured delivery targets.
type Notifier interface {
	Notify(ctx context.Context, payload notifier.Payload) []notifier.Result
}
