// Package web serves the business map page and the JSON API behind it.
package web

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/auth"
	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/kv"
	"github.com/evcraddock/emprende-tacna/internal/logging"
	"github.com/evcraddock/emprende-tacna/internal/maplayer"
	"github.com/evcraddock/emprende-tacna/internal/overlay"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds server configuration.
type Config struct {
	DevMode bool
	BaseURL string // e.g. http://localhost:8080
	Auth    auth.Config
}

// ConfigFromEnv creates a Config from ET_ environment variables.
func ConfigFromEnv() Config {
	base := os.Getenv("ET_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return Config{
		DevMode: os.Getenv("ET_DEV_MODE") == "true",
		BaseURL: base,
		Auth:    auth.ConfigFromEnv(),
	}
}

// Server is the web UI and API server. The business map lives in memory
// for the lifetime of the server; browsers render it from /api/markers.
type Server struct {
	cfg       Config
	app       *app.App
	layer     *maplayer.Layer
	apiKeys   *auth.APIKeyStore
	limiter   *auth.FailureLimiter
	templates *template.Template
	router    chi.Router
}

// NewServer creates a server over the given database and loads the
// directory from it.
func NewServer(db *sql.DB, cfg Config) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"excerpt": func(s string) string { return overlay.Excerpt(s, 100) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		app:       app.New(business.NewStore(kv.NewSQLite(db)), overlay.NewSync()),
		layer:     maplayer.New(),
		apiKeys:   auth.NewAPIKeyStore(db),
		limiter:   auth.NewFailureLimiter(cfg.Auth.FailuresPerMinute),
		templates: tmpl,
	}
	res := s.app.Start(s.layer)
	slog.Info("directory loaded", "markers", res.Added, "stats", s.app.Stats())

	s.router = s.routes(http.FileServer(http.FS(staticContent)))
	return s, nil
}

func (s *Server) routes(static http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(logging.RequestLogger)

	r.Get("/health", s.handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", static))
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return auth.Identify(s.apiKeys, s.limiter, next)
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, "not found", http.StatusNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		})

		r.Get("/categories", s.apiCategories)
		r.Get("/businesses", s.apiListBusinesses)
		r.Get("/businesses/{id}", s.apiGetBusiness)
		r.Get("/featured", s.apiFeatured)
		r.Get("/visited", s.apiVisited)
		r.Get("/stats", s.apiStats)
		r.Get("/markers", s.apiMarkers)
		r.Post("/markers/{handle}/activate", s.apiActivateMarker)
		r.Post("/locate", s.apiLocate)

		r.Group(func(r chi.Router) {
			if s.cfg.Auth.RequireAuth {
				r.Use(auth.RequireUser)
			}
			r.Post("/businesses", s.apiCreateBusiness)
			r.Post("/businesses/{id}/visit", s.apiVisitBusiness)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.forgetLimiterClients(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "addr", srv.Addr, "base_url", s.cfg.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) forgetLimiterClients(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.limiter.Forget()
		}
	}
}
