package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cinepick/internal/history"
	"cinepick/internal/logging"
	"cinepick/internal/recommend"
)

// Recommender runs a full recommendation.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Result, error)
}

// HistoryReader lists and loads stored runs.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Get(ctx context.Context, requestID string) (recommend.Result, error)
}

// Options configures the HTTP service.
type Options struct {
	Bind               string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	Logger             *slog.Logger
}

// Server exposes recommendation, lookup and history endpoints over JSON.
type Server struct {
	bind        string
	logger      *slog.Logger
	recommender Recommender
	metadata    recommend.MetadataSource
	history     HistoryReader
	handler     http.Handler
}

// New builds the router. history may be nil when history is disabled.
func New(opts Options, recommender Recommender, meta recommend.MetadataSource, hist HistoryReader) (*Server, error) {
	if recommender == nil {
		return nil, errors.New("httpapi: recommender required")
	}
	if meta == nil {
		return nil, errors.New("httpapi: metadata source required")
	}
	s := &Server{
		bind:        strings.TrimSpace(opts.Bind),
		logger:      logging.NewComponentLogger(opts.Logger, "http"),
		recommender: recommender,
		metadata:    meta,
		history:     hist,
	}
	s.handler = s.routes(opts)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			api.Use(rateLimit(opts.RateLimitPerMinute, time.Minute))
		}
		if opts.RequestTimeout > 0 {
			api.Use(middleware.Timeout(opts.RequestTimeout))
		}
		api.Post("/recommendations", s.handleRecommend)
		api.Get("/search", s.handleSearch)
		api.Get("/movies/{id}/trailer", s.handleTrailer)
		api.Get("/history", s.handleHistoryList)
		api.Get("/history/{id}", s.handleHistoryGet)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("httpapi: bind address required")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
		}),
	)
}
