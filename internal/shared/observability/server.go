package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus is what /health reports: whether a check has completed and
// when the last one ran.
type HealthStatus struct {
	Status    string    `json:"status"`
	LastCheck time.Time `json:"last_check,omitempty"`
	Findings  int       `json:"findings"`
}

type Server struct {
	addr   string
	server *http.Server

	mu     sync.Mutex
	status HealthStatus
}

func NewServer(addr string) *Server {
	return &Server{
		addr:   addr,
		status: HealthStatus{Status: "starting"},
	}
}

// RecordCheck updates the health snapshot after a completed run.
func (s *Server) RecordCheck(findings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = HealthStatus{
		Status:    "up",
		LastCheck: time.Now().UTC(),
		Findings:  findings,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.status
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
