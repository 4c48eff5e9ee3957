// Package server exposes charts, paths and live metric cycling over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long open requests may take once shutdown starts.
const shutdownTimeout = 5 * time.Second

// Server serves the chart surfaces of one validated config.
type Server struct {
	cfg     *contract.Config
	mgr     contract.CacheManager
	logger  *zap.Logger
	metrics *serverMetrics
	streams streamSessions
	handler http.Handler
}

// New returns a server for cfg. A nil logger disables logging.
func New(cfg *contract.Config, mgr contract.CacheManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		mgr:     mgr,
		logger:  logger,
		metrics: newServerMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /api/metrics", s.handleListMetrics)
	mux.HandleFunc("GET /api/metrics/{id}", s.handleGetMetric)
	mux.HandleFunc("GET /api/metrics/{id}/paths", s.handleGetPaths)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("POST /api/stream/{session}/select", s.handleSelect)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.handler = s.instrument(mux)
	return s
}

// Handler returns the root handler with logging and metrics applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(cfg *contract.Config) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Execute serves HTTP on cfg.Listen until ctx is cancelled, then shuts down gracefully.
func Execute(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.Registry == nil {
		return errors.New("no registry loaded")
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s := New(cfg, mgr, logger)
	// Streams end with ctx so Shutdown does not wait on them
	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening",
			zap.String("addr", cfg.Listen),
			zap.Strings("metrics", cfg.Registry.ListIDs()),
			zap.Duration("interval", cfg.Interval))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
