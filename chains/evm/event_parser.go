package evm

import (
	"math/big"
	"strconv"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const wordSize = 32

// RegistrationEvent is a Registered log decoded into its event arguments.
type RegistrationEvent struct {
	DedupeKey   string
	Name        string
	Owner       string
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
}

// Valid reports whether the decode produced a usable record. Malformed logs
// decode to empty fields rather than errors; callers discard invalid records.
func (e RegistrationEvent) Valid() bool {
	return e.Name != "" && e.TxHash != ""
}

// ParseRegistrationLog decodes a Registered log. The event carries the display
// name as an ABI dynamic string in the data section and the owner as the third
// indexed topic. Decoding is pure and never fails: missing data or topics
// yield empty fields and an invalid record.
func ParseRegistrationLog(log *types.Log) RegistrationEvent {
	event := RegistrationEvent{
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}

	if log.TxHash != (ethcommon.Hash{}) {
		event.TxHash = strings.ToLower(log.TxHash.Hex())
		event.DedupeKey = event.TxHash + ":" + strconv.FormatUint(uint64(log.Index), 10)
	}

	event.Name = decodeDynamicString(log.Data)

	if len(log.Topics) >= 3 {
		event.Owner = strings.ToLower(ethcommon.BytesToAddress(log.Topics[2].Bytes()).Hex())
	}

	return event
}

// decodeDynamicString reads word 0 of data as a byte offset to a
// length-prefixed, word-padded UTF-8 string and returns the string.
// Out-of-bounds offsets decode to the empty string; a length word that
// overruns the data yields the bytes that are present.
func decodeDynamicString(data []byte) string {
	if len(data) < wordSize {
		return ""
	}

	offsetWord := new(big.Int).SetBytes(data[:wordSize])
	if !offsetWord.IsUint64() {
		return ""
	}
	offset := offsetWord.Uint64()
	if offset > uint64(len(data))-wordSize {
		return ""
	}

	lengthWord := new(big.Int).SetBytes(data[offset : offset+wordSize])
	if !lengthWord.IsUint64() {
		return ""
	}

	start := offset + wordSize
	end := start + lengthWord.Uint64()
	if end < start || end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return string(data[start:end])
}
