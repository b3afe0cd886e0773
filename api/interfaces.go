package api

import (
	"context"

	"github.com/ipnslabs/regmonitor/monitor"
	"github.com/ipnslabs/regmonitor/store"
)

// MonitorInterface defines the methods needed by the API server
type MonitorInterface interface {
	PollOnce(ctx context.Context) (*monitor.PollResult, error)
	RecordAnalyticsEvent(sub monitor.AnalyticsSubmission) error
	RecentRegistrations(limit int) []store.Registration
	Reconciliation(hours int) monitor.Report
}
