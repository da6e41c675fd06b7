// Package server exposes scene generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/observability"
	"github.com/matzehuels/neuroscene/pkg/observability/prom"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr    = ":8080"
	DefaultTimeout = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Config wires the server's collaborators.
type Config struct {
	Runner   *pipeline.Runner
	Logger   *log.Logger
	Gatherer prometheus.Gatherer // nil disables /metrics
	Defaults params.Params       // starting point for query parameters
	Timeout  time.Duration       // per-request deadline
}

// Server routes API requests to the pipeline.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults params.Params
	router   chi.Router
}

// handlerFunc produces a response body and its content type. A non-nil error
// is mapped to a status code with errors.HTTPStatus.
type handlerFunc func(r *http.Request) (body []byte, contentType string, err error)

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	if cfg.Defaults == (params.Params{}) {
		cfg.Defaults = params.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Server{
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		defaults: cfg.Defaults.Clamp(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	s.get(r, "/healthz", s.handleHealth)
	s.get(r, "/api/v1/topologies", s.handleTopologies)
	s.get(r, "/api/v1/params/default", s.handleDefaultParams)
	s.get(r, "/api/v1/scenes/{topology}", s.handleScene)
	s.get(r, "/api/v1/scenes/{topology}/frame", s.handleFrame)
	s.get(r, "/api/v1/scenes/{topology}/render.{format}", s.handleRender)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", prom.Handler(cfg.Gatherer))
	}
	r.NotFound(s.serve("unmatched", func(*http.Request) ([]byte, string, error) {
		return nil, "", errors.New(errors.ErrCodeNotFound, "no such endpoint")
	}))

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}

// =============================================================================
// Request plumbing
// =============================================================================

func (s *Server) get(r chi.Router, pattern string, h handlerFunc) {
	r.Get(pattern, s.serve(pattern, h))
}

// serve adapts h to net/http. The route pattern, not the raw path, labels
// hooks so metric cardinality stays bounded.
func (s *Server) serve(route string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, route)
		start := time.Now()

		body, contentType, err := h(r)
		status := http.StatusOK
		if err != nil {
			status = errors.HTTPStatus(err)
			hooks.OnError(ctx, r.Method, route, err)
			body, contentType = errorBody(err), "application/json"
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		if _, werr := w.Write(body); werr != nil {
			s.logger.Debug("write response", "err", werr)
		}

		duration := time.Since(start)
		hooks.OnResponse(ctx, r.Method, route, status, duration)

		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration,
			"request_id", middleware.GetReqID(ctx),
		}
		if err != nil {
			fields = append(fields, "err", err)
		}
		logf("request", fields...)
	}
}

type errorResponse struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func errorBody(err error) []byte {
	var resp errorResponse
	resp.Error.Code = errors.GetCode(err)
	if resp.Error.Code == "" {
		resp.Error.Code = errors.ErrCodeInternal
	}
	resp.Error.Message = errors.UserMessage(err)
	data, _ := json.Marshal(resp)
	return data
}

func jsonBody(v any) ([]byte, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "encode response")
	}
	return data, "application/json", nil
}
