// Package api exposes the monitor facade over HTTP: health, recent
// registrations, reconciliation, and analytics ingestion.
package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server provides HTTP endpoints over the registration monitor
type Server struct {
	logger       zerolog.Logger
	monitor      MonitorInterface
	sharedSecret string
	server       *http.Server
}

// NewServer creates a new Server instance. An empty sharedSecret disables
// the analytics ingestion auth check.
func NewServer(logger zerolog.Logger, port int, monitor MonitorInterface, sharedSecret string) *Server {
	s := &Server{
		logger:       logger.With().Str("component", "api_server").Logger(),
		monitor:      monitor,
		sharedSecret: sharedSecret,
	}

	mux := s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("api server is nil")
	}

	// Channel to signal server startup result
	startupChan := make(chan error, 1)

	go func() {
		// Probe the port before committing to ListenAndServe
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}
		ln.Close()

		startupChan <- nil

		err = s.server.ListenAndServe()
		switch err {
		case nil:
			s.logger.Info().Msg("API server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("API server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	select {
	case err := <-startupChan:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server startup timeout")
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
