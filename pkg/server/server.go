// Package server exposes the diagnosis pipeline over HTTP.
//
// Routes:
//
//	POST /api/generate       single-person result
//	POST /api/compatibility  two-person result
//	POST /api/numbers        raw number sequence for a birth date and time
//	GET  /api/health         liveness and version
//	GET  /output/{name}      stored result images
//	GET  /images/*           catalog images
//	GET  /                   frontend, when a frontend directory is configured
//
// Errors are returned as {"detail": message, "code": CODE}. Validation
// failures map to 400, missing artifacts to 404 and everything else to 500.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/mydungeon/pkg/pipeline"
)

// Config holds server settings.
type Config struct {
	Addr string
	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string
	// ImagesDir is served under /images/. Empty disables the route.
	ImagesDir string
	// FrontendDir is served under / and /static/. Empty or missing
	// index.html serves a JSON welcome message instead.
	FrontendDir string
	// RequestTimeout bounds a whole request, fetches included.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds draining on shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used by `mydungeon serve`.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8000",
		RequestTimeout:  120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	router chi.Router
	logger *log.Logger
}

// New builds the router. A nil logger uses log.Default().
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/compatibility", s.handleCompatibility)
		r.Post("/numbers", s.handleNumbers)
		r.Get("/health", s.handleHealth)
	})

	s.router.Get("/output/{name}", s.handleOutput)

	if s.cfg.ImagesDir != "" {
		s.router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.cfg.ImagesDir))))
	}

	if s.hasFrontend() {
		static := http.FileServer(http.Dir(s.cfg.FrontendDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", static))
		s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.cfg.FrontendDir, "index.html"))
		})
	} else {
		s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to My Dungeon API. Frontend not found."})
		})
	}
}

func (s *Server) hasFrontend() bool {
	if s.cfg.FrontendDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(s.cfg.FrontendDir, "index.html"))
	return err == nil && !info.IsDir()
}

// logRequests logs one line per request through the charm logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
