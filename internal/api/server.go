// Package api serves the reflection backend over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/completion"
	"github.com/pbaille/journal/internal/config"
	"github.com/pbaille/journal/internal/fetcher"
)

const maxRequestBody = 1 << 20

// Server handles HTTP requests for the journal backend
type Server struct {
	cfg       config.ServerConfig
	completer completion.Completer
	fetcher   *fetcher.Client
	metrics   *Metrics
	logger    *zap.Logger
}

// New creates a new API server. fetch is only used when cfg.LandingURL is
// set and may be nil otherwise.
func New(cfg config.ServerConfig, c completion.Completer, fetch *fetcher.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		completer: c,
		fetcher:   fetch,
		metrics:   NewMetrics(),
		logger:    logger,
	}
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/journal", s.reflect)
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", s.metrics.Handler())

	if s.cfg.LandingURL != "" && s.fetcher != nil {
		mux.HandleFunc("GET /", s.landing)
	}

	return Chain(
		Recovery(s.logger),
		Logger(s.logger),
		Instrument(s.metrics),
		CORS(s.cfg),
	)(mux)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReflectRequest is the request body for a reflection
type ReflectRequest struct {
	Prompt string `json:"prompt"`
}

// ReflectResponse is the response for a reflection
type ReflectResponse struct {
	Result string `json:"result"`
}

func (s *Server) reflect(w http.ResponseWriter, r *http.Request) {
	var req ReflectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	start := time.Now()
	result, err := s.completer.Complete(r.Context(), req.Prompt)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.reflections.WithLabelValues("error").Inc()
		s.logger.Error("completion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "error calling completion service")
		return
	}
	s.metrics.reflections.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, ReflectResponse{Result: result})
}

// landing proxies unmatched GETs to the landing site.
func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSuffix(s.cfg.LandingURL, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	page, err := s.fetcher.Get(r.Context(), target, r.UserAgent())
	if err != nil {
		s.logger.Warn("landing fetch failed", zap.String("url", target), zap.Error(err))
		writeError(w, http.StatusBadGateway, "landing page unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(page.StatusCode)
	_, _ = w.Write(page.Body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
