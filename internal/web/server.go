package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/config"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the local web UI: the filter form, the card grid and the
// per-card weighted-adjustment form.
type Server struct {
	backend    lookup.Backend
	journal    lookup.Journal
	display    output.Options
	logger     *zap.Logger
	tmpl       *template.Template
	router     *chi.Mux
	httpServer *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithJournal records every adjustment save attempt in j
func WithJournal(j lookup.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithLogger sets the request and diagnostic logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds the router and the HTTP server listening on cfg.Server.Addr
func New(b lookup.Backend, cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		backend: b,
		display: output.Options{ImageFallbackURL: cfg.Display.ImageFallbackURL},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := output.Templates()
	if err != nil {
		return nil, err
	}
	if s.tmpl, err = tmpl.ParseFS(templateFS, "templates/*.tmpl"); err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.CleanPath)

	r.Get("/", s.handleIndex)
	r.Post("/adjust", s.handleAdjust)
	r.Get("/healthz", handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/cards", s.handleAPICards)
		api.Get("/cards/{cardNo}", s.handleAPICard)
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server starting", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		s.logger.Info("web server stopped")
		return nil
	}
}

// controller builds a controller reporting into p; one per request
func (s *Server) controller(p lookup.Presenter) *lookup.Controller {
	var opts []lookup.Option
	if s.journal != nil {
		opts = append(opts, lookup.WithJournal(s.journal))
	}
	return lookup.New(s.backend, p, s.logger, opts...)
}
