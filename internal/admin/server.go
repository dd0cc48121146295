package admin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"code.cloudfoundry.org/k8s-policy-controller/internal/metrics"
	"code.cloudfoundry.org/k8s-policy-controller/internal/readiness"

	"code.cloudfoundry.org/lager/v3"
	"github.com/gorilla/mux"
)

const readHeaderTimeout = 10 * time.Second

// Server answers readiness, liveness, and metrics queries. It never
// consults the drain signal; process shutdown tears its listener down with
// any in-flight requests.
type Server struct {
	addr   string
	gate   *readiness.Gate
	logger lager.Logger

	mu       sync.Mutex
	listener net.Listener
}

func NewServer(addr string, gate *readiness.Gate, logger lager.Logger) *Server {
	return &Server{
		addr:   addr,
		gate:   gate,
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	router.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return router
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("admin listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("admin server listening", lager.Data{"addr": listener.Addr().String()})

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("admin serve: %w", err)
		}
		return errors.New("admin server stopped")
	case <-ctx.Done():
		server.Close()
		<-errCh
		return ctx.Err()
	}
}

// Addr returns the bound address, or "" before Run has bound the listener.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.gate.Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}
