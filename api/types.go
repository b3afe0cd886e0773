package api

import "github.com/ipnslabs/regmonitor/store"

// HealthResponse reports service liveness
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// RecentResponse wraps the recent registrations query result
type RecentResponse struct {
	Events []store.Registration `json:"events"`
}

// AckResponse acknowledges an accepted submission
type AckResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
