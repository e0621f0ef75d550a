package httpgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/haukened/geofence/internal/geo/common/log"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP listener hosting the gate and the reporting API.
type Server struct {
	addr    string
	handler http.Handler
	logger  log.Logger

	mu      sync.Mutex
	running bool
	srv     *http.Server
}

// NewServer constructs a Server for the given address and root handler.
func NewServer(addr string, handler http.Handler, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Server{addr: addr, handler: handler, logger: logger}
}

// Start begins serving. It blocks until the listener fails or ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("http server already running")
	}
	s.srv = &http.Server{Addr: s.addr, Handler: s.handler}
	s.running = true
	s.mu.Unlock()

	s.logger.Info(map[string]any{
		"address": s.addr,
	}, "HTTP server started")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	s.logger.Info(map[string]any{
		"address": s.addr,
	}, "HTTP server stopped")
	return err
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.addr
}
