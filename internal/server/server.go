// Package server exposes the estimate engine over HTTP.
//
// Every request is handled independently: handlers share only the
// immutable engine and the metrics collectors.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/poupaenergia/poupa/internal/logging"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

// TraceHeader carries the request trace ID in and out.
const TraceHeader = "X-Request-ID"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Logger           zerolog.Logger
	Registry         *prometheus.Registry
	BatchConcurrency int
	ExposeMetrics    bool
}

// Server serves the estimate API.
type Server struct {
	engine       *savings.Engine
	acknowledger *proposal.Acknowledger
	metrics      *Metrics
	registry     *prometheus.Registry
	logger       zerolog.Logger
	concurrency  int
	expose       bool
	now          func() time.Time
}

// New creates a Server around engine. A nil Registry gets a fresh one.
func New(engine *savings.Engine, opts Options) (*Server, error) {
	if engine == nil {
		return nil, errors.New("server: nil engine")
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	return &Server{
		engine:       engine,
		acknowledger: proposal.NewAcknowledger(),
		metrics:      metrics,
		registry:     reg,
		logger:       logging.ComponentLogger(opts.Logger, "server"),
		concurrency:  opts.BatchConcurrency,
		expose:       opts.ExposeMetrics,
		now:          time.Now,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /api/v1/estimates/{strategy}", s.handleEstimate)
	s.route(mux, "POST /api/v1/batch", s.handleBatch)
	s.route(mux, "GET /api/v1/catalog", s.handleCatalog)
	s.route(mux, "POST /api/v1/proposals", s.handleProposal)
	s.route(mux, "GET /healthz", s.handleHealth)
	if s.expose {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// route registers h under pattern with tracing, logging and metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = logging.GetOrGenerateTraceID(r.Context())
		}
		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = s.logger.WithContext(ctx)
		w.Header().Set(TraceHeader, traceID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		s.metrics.observeHTTP(route, strconv.Itoa(rec.status), elapsed)
		s.logger.Debug().Ctx(ctx).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return Serve(ctx, ln, h, readTimeout, writeTimeout, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
