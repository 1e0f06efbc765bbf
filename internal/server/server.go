// Package server exposes the root finder over HTTP.
//
// Routes:
//
//	POST /api/newton-raphson/root  solve one request
//	GET  /ws                       stream the iteration table of each request
//	GET  /healthz
//	GET  /metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies. The function text itself is capped at
// gonewton.MaxExpressionLength.
const maxBodyBytes = 64 << 10

type Server struct {
	logger         *slog.Logger
	cache          *cache.Cache
	registry       *prometheus.Registry
	metrics        *Metrics
	budget         time.Duration
	readTimeout    time.Duration
	precision      gonewton.Precision
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCache enables the result cache. A nil cache disables it.
func WithCache(c *cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithBudget bounds the wall-clock time of every solve.
func WithBudget(d time.Duration) Option {
	return func(s *Server) { s.budget = d }
}

// WithReadTimeout bounds reading one whole request, body included.
// Zero means no limit.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

func WithPrecision(p gonewton.Precision) Option {
	return func(s *Server) { s.precision = p }
}

// WithAllowedOrigins lists the browser origins accepted by CORS and /ws.
// Empty means same-origin only for /ws and no CORS headers.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// New creates a server with its own metrics registry.
func New(opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		registry:  prometheus.NewRegistry(),
		budget:      5 * time.Second,
		readTimeout: 10 * time.Second,
		precision:   gonewton.DefaultPrecision,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = NewMetrics(s.registry)
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Post("/api/newton-raphson/root", s.handleRoot)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := s.httpServer(addr)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutdown signal received, shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.readTimeout,
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.originAllowed(origin) {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

func (s *Server) options() []gonewton.Option {
	return []gonewton.Option{
		gonewton.WithPrecision(s.precision),
		gonewton.WithBudget(s.budget),
	}
}
