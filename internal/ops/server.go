// Package ops exposes the operational HTTP surface: liveness, manual poll
// triggers, and Prometheus metrics. Handlers only invoke the same internal
// functions the timers do.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logx "shopwatch/pkg/logx"
)

type Config struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default: "127.0.0.1:8080"
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8080"
	}
	return c
}

// Triggerable is one poll runner reachable via POST /poll/{source}.
type Triggerable interface {
	Name() string
	Tick(ctx context.Context) error
}

// SummaryRunner is the daily aggregator's manual entry point.
type SummaryRunner interface {
	RunOnce(ctx context.Context, asOf time.Time) error
}

// Server manages lifecycle for the ops HTTP listener.
type Server struct {
	mu   sync.Mutex
	log  logx.Logger
	srv  *http.Server
	ln   net.Listener
	addr string

	startedAt time.Time
	runners   map[string]Triggerable
	summary   SummaryRunner
}

func NewServer(log logx.Logger, runners []Triggerable, summary SummaryRunner) *Server {
	if log.IsZero() {
		log = logx.Nop()
	}
	byName := make(map[string]Triggerable, len(runners))
	for _, r := range runners {
		byName[r.Name()] = r
	}
	return &Server{
		log:       log.With(logx.String("comp", "ops")),
		startedAt: time.Now(),
		runners:   byName,
		summary:   summary,
	}
}

// Start begins serving according to cfg. Disabled config is a no-op.
func (s *Server) Start(cfg Config) {
	cfg = cfg.withDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !cfg.Enabled || s.srv != nil {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /poll/{source}", s.handlePoll)
	mux.HandleFunc("POST /summary", s.handleSummary)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		s.log.Warn("ops listen failed", logx.String("addr", cfg.Addr), logx.Err(err))
		return
	}

	s.srv = srv
	s.ln = ln
	s.addr = ln.Addr().String()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("ops server error", logx.Err(err))
		}
	}()
	s.log.Info("ops server listening", logx.String("addr", s.addr))
}

func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return
	}
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.ln = nil
	s.addr = ""

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warn("ops shutdown error", logx.Err(err))
	}
	if ln != nil {
		_ = ln.Close()
	}
}

// Addr reports the actual listen address if running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("source"))
	runner, ok := s.runners[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "unknown source: " + name})
		return
	}

	runID := uuid.NewString()
	log := s.log.With(logx.String("run_id", runID), logx.String("source", name))
	log.Info("manual poll triggered")

	err := runner.Tick(r.Context())
	if err != nil {
		log.Warn("manual poll failed", logx.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "run_id": runID, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "run_id": runID, "source": name})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "summary disabled"})
		return
	}
	runID := uuid.NewString()
	if err := s.summary.RunOnce(r.Context(), time.Now()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "run_id": runID, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "run_id": runID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
