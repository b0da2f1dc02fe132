package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vvnews/internal/domain"
)

const defaultRunTimeout = 120 * time.Second

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) (*domain.RunReport, error)

// StatusInfo is the static configuration surface reported by /status.
type StatusInfo struct {
	Keyword   string   `json:"keyword"`
	Window    string   `json:"window"`
	Sources   []string `json:"sources"`
	Providers []string `json:"providers"`
}

// Server exposes the HTTP control surface: manual runs, health, status and
// metrics.
type Server struct {
	run        RunFunc
	info       StatusInfo
	logger     *slog.Logger
	registry   *prometheus.Registry
	runTimeout time.Duration

	mu         sync.Mutex
	lastRunAt  time.Time
	lastStatus string
}

func NewServer(run RunFunc, info StatusInfo, reg *prometheus.Registry, log *slog.Logger) *Server {
	return &Server{
		run:        run,
		info:       info,
		logger:     log.With("component", "http"),
		registry:   reg,
		runTimeout: defaultRunTimeout,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/run", s.handleRun)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "vvnews",
		"usage":   "GET /run to trigger a scan, /health, /status, /metrics",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()

	started := time.Now()
	report, err := s.run(ctx)

	status := http.StatusOK
	body := map[string]any{
		"timestamp":       started.In(domain.HongKong).Format(time.RFC3339),
		"elapsed_seconds": int(time.Since(started).Seconds()),
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		body["status"] = "timeout"
		status = http.StatusGatewayTimeout
	case err != nil:
		body["status"] = "error"
		body["error"] = err.Error()
		status = http.StatusInternalServerError
	case len(report.Admitted) > 0:
		body["status"] = "success"
		body["found"] = len(report.Admitted)
		body["candidates"] = report.TotalCandidates
		body["notified"] = report.Notified
	default:
		body["status"] = "success_no_news"
		body["found"] = 0
		body["candidates"] = report.TotalCandidates
	}

	s.mu.Lock()
	s.lastRunAt = started
	s.lastStatus = body["status"].(string)
	s.mu.Unlock()

	writeJSON(w, status, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lastAt, lastStatus := s.lastRunAt, s.lastStatus
	s.mu.Unlock()

	body := map[string]any{
		"keyword":   s.info.Keyword,
		"window":    s.info.Window,
		"sources":   s.info.Sources,
		"providers": s.info.Providers,
	}
	if !lastAt.IsZero() {
		body["last_run_at"] = lastAt.In(domain.HongKong).Format(time.RFC3339)
		body["last_run_status"] = lastStatus
	}
	writeJSON(w, http.StatusOK, body)
}

// Listen serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
