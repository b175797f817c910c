// Package server exposes the loaded predictions over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/ev-priority/internal/dataset"
	"github.com/sells-group/ev-priority/internal/view"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Env   *view.Env
	Views *view.Registry
	// Source, when set, is consulted on every request so an edited source
	// file is picked up without a restart. Typically a dataset.Cache.
	Source func(ctx context.Context) (*dataset.Dataset, error)

	CORSOrigins []string
	// RateLimit is the sustained request rate per second for /api routes.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int

	Metrics bool
	// Registerer and Gatherer default to a private registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Server serves one read-only dataset.
type Server struct {
	env     *view.Env
	views   *view.Registry
	source  func(ctx context.Context) (*dataset.Dataset, error)
	limiter *rate.Limiter
	metrics *metrics
	router  chi.Router
	log     *zap.Logger
}

// New builds the router. It fails when the options carry no dataset.
func New(opts Options) (*Server, error) {
	if opts.Env == nil || opts.Env.Dataset == nil {
		return nil, eris.New("server: dataset is required")
	}
	if opts.Views == nil {
		opts.Views = view.NewRegistry()
	}

	s := &Server{
		env:    opts.Env,
		views:  opts.Views,
		source: opts.Source,
		log:    zap.L().With(zap.String("component", "server")),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	var gatherer prometheus.Gatherer
	if opts.Metrics {
		reg, gat := opts.Registerer, opts.Gatherer
		if reg == nil {
			r := prometheus.NewRegistry()
			reg, gat = r, r
		}
		m, err := newMetrics(reg)
		if err != nil {
			return nil, err
		}
		s.metrics = m
		gatherer = gat
	}

	s.router = s.routes(opts.CORSOrigins, gatherer)
	return s, nil
}

func (s *Server) routes(origins []string, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	// Metrics wrap Recoverer so panicking requests are counted as 500s.
	if s.metrics != nil {
		r.Use(s.metrics.instrument)
	}
	r.Use(middleware.Recoverer)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		r.Get("/classify", s.handleClassify)
		r.Get("/top/{label}", s.handleTop)
		r.Get("/map", s.handleMap)
		r.Get("/summary", s.handleSummary)
		r.Get("/views", s.handleViewList)
		r.Get("/views/{view}", s.handleView)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// currentEnv returns the env to serve a request from. The shared env is
// never mutated; a reloaded dataset gets a shallow copy.
func (s *Server) currentEnv(ctx context.Context) (*view.Env, error) {
	if s.source == nil {
		return s.env, nil
	}
	ds, err := s.source(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "server: reload dataset")
	}
	if ds == s.env.Dataset {
		return s.env, nil
	}
	env := *s.env
	env.Dataset = ds
	return &env, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting server",
			zap.Int("port", port),
			zap.Int("records", s.env.Dataset.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	})
	return g.Wait()
}
