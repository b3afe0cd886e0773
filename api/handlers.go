package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ipnslabs/regmonitor/monitor"
)

const maxBodyBytes = 1 << 20

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{OK: true, Service: "registration-notifier"})
}

// handleRecentRegistrations handles GET /registrations/recent?limit=<n>
func (s *Server) handleRecentRegistrations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	events := s.monitor.RecentRegistrations(limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RecentResponse{Events: events})
}

// handleReconciliation handles GET /registrations/reconciliation?hours=<n>
func (s *Server) handleReconciliation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			hours = n
		}
	}

	report := s.monitor.Reconciliation(hours)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleAnalyticsEvent handles POST /analytics/register_tx_confirmed
func (s *Server) handleAnalyticsEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.sharedSecret != "" && r.Header.Get("x-analytics-secret") != s.sharedSecret {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "unauthorized"})
		return
	}

	var sub monitor.AnalyticsSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid json body"})
		return
	}

	if err := s.monitor.RecordAnalyticsEvent(sub); err != nil {
		status := http.StatusInternalServerError
		var verr *monitor.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(AckResponse{OK: true})
}
