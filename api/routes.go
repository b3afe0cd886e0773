package api

import "net/http"

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", s.handleHealth)

	// Registration query endpoints
	mux.HandleFunc("/registrations/recent", s.handleRecentRegistrations)
	mux.HandleFunc("/registrations/reconciliation", s.handleReconciliation)

	// Analytics ingestion endpoint
	mux.HandleFunc("/analytics/register_tx_confirmed", s.handleAnalyticsEvent)

	return mux
}
