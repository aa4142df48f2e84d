package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPServer serves the task API on a TCP listener and shuts down
// gracefully when its context is cancelled.
type HTTPServer struct {
	address         string
	handler         http.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration

	// ready is closed once the listener is bound.
	ready chan struct{}
	addr  net.Addr
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Address is the TCP listen address (e.g. ":8080"). Required.
	Address string

	// Handler handles incoming requests. Required.
	Handler http.Handler

	// ShutdownTimeout bounds the graceful-shutdown drain. Defaults to
	// 10 seconds if zero.
	ShutdownTimeout time.Duration

	// Logger receives lifecycle messages. Required.
	Logger *slog.Logger
}

// NewHTTPServer validates the configuration and returns a server.
// Call Serve to start accepting connections.
func NewHTTPServer(cfg HTTPServerConfig) (*HTTPServer, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("server: Address is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("server: Handler is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("server: Logger is required")
	}

	timeout := cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPServer{
		address:         cfg.Address,
		handler:         cfg.Handler,
		logger:          cfg.Logger,
		shutdownTimeout: timeout,
		ready:           make(chan struct{}),
	}, nil
}

// Ready returns a channel closed once the server is accepting
// connections.
func (s *HTTPServer) Ready() <-chan struct{} { return s.ready }

// Addr returns the resolved listen address. Valid only after Ready()
// is closed; useful with ":0" addresses in tests.
func (s *HTTPServer) Addr() net.Addr { return s.addr }

// Serve binds the listener and blocks until ctx is cancelled and
// in-flight requests have drained (or the shutdown timeout elapses).
func (s *HTTPServer) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.address, err)
	}

	s.addr = listener.Addr()
	close(s.ready)
	s.logger.Info("http server listening", "address", s.addr.String())

	httpServer := &http.Server{Handler: s.handler}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
