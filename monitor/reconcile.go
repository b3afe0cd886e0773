package monitor

import (
	"math"
	"time"

	"github.com/ipnslabs/regmonitor/store"
)

// Report compares on-chain registration counts against externally reported
// analytics confirmations over a trailing window.
type Report struct {
	WindowHours                  int     `json:"windowHours"`
	OnchainRegistrationsInWindow int     `json:"onchainRegistrationsInWindow"`
	AnalyticsConfirmedInWindow   int     `json:"analyticsConfirmedInWindow"`
	MismatchPercentage           float64 `json:"mismatchPercentage"`
}

// ComputeReconciliation counts events whose block time and analytics records
// whose received time fall within the trailing window and derives the
// mismatch percentage. Pure; windows below one hour are treated as one hour.
func ComputeReconciliation(state *store.State, windowHours int, now time.Time) Report {
	hours := windowHours
	if hours < 1 {
		hours = 1
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)

	onchain := 0
	for _, event := range state.Events {
		if inWindow(event.BlockTime, cutoff, now) {
			onchain++
		}
	}

	analytics := 0
	for _, record := range state.Analytics {
		if inWindow(record.ReceivedAt, cutoff, now) {
			analytics++
		}
	}

	var mismatch float64
	switch {
	case onchain == 0 && analytics == 0:
		mismatch = 0
	case onchain == 0:
		mismatch = 100
	default:
		mismatch = math.Abs(float64(onchain)-float64(analytics)) / float64(onchain) * 100
	}

	return Report{
		WindowHours:                  hours,
		OnchainRegistrationsInWindow: onchain,
		AnalyticsConfirmedInWindow:   analytics,
		MismatchPercentage:           math.Round(mismatch*100) / 100,
	}
}

func inWindow(t, cutoff, now time.Time) bool {
	return !t.IsZero() && !t.Before(cutoff) && !t.After(now)
}
