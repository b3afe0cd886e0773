// Package evm provides the thin chain capability the monitor polls through:
// chain height, registration log ranges, and block timestamps over an EVM
// JSON-RPC endpoint.
package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client wraps an ethclient scoped to one registry contract and one event
// signature topic. Errors from the endpoint propagate untouched; retry is the
// caller's concern.
type Client struct {
	eth      *ethclient.Client
	contract ethcommon.Address
	topic    ethcommon.Hash
	logger   zerolog.Logger
}

// Dial connects to the RPC endpoint and returns a client filtering for the
// given contract address and Registered event topic.
func Dial(ctx context.Context, rpcURL, contract, topicRegister string, logger zerolog.Logger) (*Client, error) {
	if rpcURL == "" {
		return nil, errors.New("rpc url is required")
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc endpoint")
	}

	return &Client{
		eth:      eth,
		contract: ethcommon.HexToAddress(contract),
		topic:    ethcommon.HexToHash(topicRegister),
		logger:   logger.With().Str("component", "evm_client").Logger(),
	}, nil
}

// LatestBlockHeight returns the current chain head number.
func (c *Client) LatestBlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "get latest block")
	}
	return height, nil
}

// FilterRegistrationLogs fetches Registered logs in the inclusive range
// [fromBlock, toBlock]. An inverted range short-circuits to an empty result
// without calling the endpoint.
func (c *Client) FilterRegistrationLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []ethcommon.Address{c.contract},
		Topics:    [][]ethcommon.Hash{{c.topic}},
	}

	logs, err := c.eth.FilterLogs(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "filter logs [%d, %d]", fromBlock, toBlock)
	}

	if len(logs) > 0 {
		c.logger.Info().
			Uint64("from_block", fromBlock).
			Uint64("to_block", toBlock).
			Int("logs_found", len(logs)).
			Msg("found registration logs")
	}

	return logs, nil
}

// BlockTime returns the timestamp of the given block as UTC.
func (c *Client) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := c.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "get header %d", blockNumber)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
