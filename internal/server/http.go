package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/zeusync/platformer/internal/core/observability/log"
)

// HTTPServer exposes a FrameHub on /ws and a liveness probe on /healthz.
type HTTPServer struct {
	hub    *FrameHub
	logger log.Log

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

func NewHTTPServer(hub *FrameHub, logger log.Log) *HTTPServer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &HTTPServer{hub: hub, logger: logger}
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		s.hub.ServeHTTP(w, r)
	case "/healthz":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	default:
		http.NotFound(w, r)
	}
}

// Start listens on addr and serves in the background.
func (s *HTTPServer) Start(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.server = srv
	s.listener = ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", log.Err(err))
		}
	}()
	s.logger.Info("frame viewer listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the hub, then shuts the server down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return ErrServerNotRunning
	}
	s.hub.Close()
	return srv.Shutdown(ctx)
}
