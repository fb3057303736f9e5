// Package http is the JSON API for the fleet: record CRUD, the
// dashboard aggregation, and report requests.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frota/internal/amqp"
	"frota/internal/cache"
	"frota/internal/config"
	"frota/internal/log"
	"frota/internal/observability"
	"frota/internal/records"
	"frota/internal/report"
)

const (
	dashboardCacheName  = "dashboard"
	httpShutdownTimeout = 10 * time.Second
)

// JobPublisher enqueues report jobs. Nil-able in tests and when AMQP
// is not configured; requests then fall back to inline rendering only.
type JobPublisher interface {
	PublishReportJob(ctx context.Context, msg *amqp.ReportJobMessage) error
}

// Server owns the router and the dashboard cache.
type Server struct {
	store          records.Store
	publisher      JobPublisher
	metrics        *observability.Metrics
	logger         *log.Logger
	dashCache      *cache.LRUCache[report.Result]
	trailingMonths int

	router chi.Router
}

func NewServer(cfg *config.Config, store records.Store, publisher JobPublisher, metrics *observability.Metrics, logger *log.Logger) *Server {
	s := &Server{
		store:          store,
		publisher:      publisher,
		metrics:        metrics,
		logger:         logger.WithComponent(log.ComponentHTTP),
		dashCache:      cache.NewLRUCache[report.Result](cfg.CacheSize, cfg.CacheTTL),
		trailingMonths: cfg.TrailingMonths,
	}
	s.router = s.routes()
	return s
}

// DashboardCache exposes the cache for lifecycle registration.
func (s *Server) DashboardCache() *cache.LRUCache[report.Result] {
	return s.dashCache
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(requestLogger(s.logger))
	r.Use(metricsMiddleware(s.metrics))
	r.Use(newWriteLimiter(120).middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.listVehicles)
			r.Post("/", s.createVehicle)
			r.Get("/{id}", s.getVehicle)
			r.Put("/{id}", s.updateVehicle)
			r.Delete("/{id}", s.deleteVehicle)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.listCategories)
			r.Post("/", s.createCategory)
			r.Get("/{id}", s.getCategory)
			r.Put("/{id}", s.updateCategory)
			r.Delete("/{id}", s.deleteCategory)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.listTransactions)
			r.Post("/", s.createTransaction)
			r.Get("/{id}", s.getTransaction)
			r.Put("/{id}", s.updateTransaction)
			r.Delete("/{id}", s.deleteTransaction)
		})
		r.Route("/fuelings", func(r chi.Router) {
			r.Get("/", s.listFuelings)
			r.Post("/", s.createFueling)
			r.Get("/{id}", s.getFueling)
			r.Put("/{id}", s.updateFueling)
			r.Delete("/{id}", s.deleteFueling)
		})

		r.Get("/dashboard", s.dashboard)
		r.Get("/dashboard/series", s.dashboardSeries)

		r.Post("/reports", s.requestReport)
		r.Get("/reports/download", s.downloadReport)
	})

	return r
}

// readyz reports readiness: the store must answer a cheap query.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListCategories(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// invalidateDerived drops every cached aggregation. Called after any
// write to any record collection.
func (s *Server) invalidateDerived() {
	s.dashCache.Purge()
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
