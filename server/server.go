// Package server implements the HTTP front end: an index page and form endpoints relaying
// uploads and subreddit posts to a webhook.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/httprate"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/relay"
)

//go:generate moq -out mocks/relayer.go -pkg mocks -skip-ensure -fmt goimports . Relayer

//go:embed templates
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	cfg     Config
	relayer Relayer
	index   *template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Relayer runs relay requests
type Relayer interface {
	RelayUploads(ctx context.Context, sinkURL string, files []relay.Upload) (domain.Outcome, error)
	RelayFeedPosts(ctx context.Context, sinkURL, subreddit string, count int) (domain.Outcome, error)
}

// Config holds server settings
type Config struct {
	Listen        string
	Timeout       time.Duration // read and write deadline of regular requests
	RelayTimeout  time.Duration // read and write deadline of /upload and /fetch_reddit
	MaxUploadSize int64
	GlobalRate    int // requests per minute per client, all endpoints
	UploadRate    int // requests per minute per client, /upload
	FetchRate     int // requests per minute per client, /fetch_reddit
	Version       string
	Debug         bool
}

// New initializes a new server instance
func New(cfg Config, relayer Relayer) *Server {
	if cfg.GlobalRate <= 0 {
		cfg.GlobalRate = 100
	}
	if cfg.UploadRate <= 0 {
		cfg.UploadRate = 50
	}
	if cfg.FetchRate <= 0 {
		cfg.FetchRate = 30
	}
	if cfg.RelayTimeout <= 0 {
		cfg.RelayTimeout = 10 * time.Minute
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 64 * 1024 * 1024
	}

	s := &Server{
		cfg:     cfg,
		relayer: relayer,
		index:   template.Must(template.ParseFS(templatesFS, "templates/index.html")),
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.cfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Timeout,
		WriteTimeout:      s.cfg.Timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("redhook", "umputun", s.cfg.Version))
	s.router.Use(rest.Ping)

	if s.cfg.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rateLimiter(s.cfg.GlobalRate))
	s.router.Use(rest.SizeLimit(s.cfg.MaxUploadSize))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.With(rateLimiter(s.cfg.UploadRate), relayDeadline(s.cfg.RelayTimeout)).HandleFunc("POST /upload", s.uploadHandler)
	s.router.With(rateLimiter(s.cfg.FetchRate), relayDeadline(s.cfg.RelayTimeout)).HandleFunc("POST /fetch_reddit", s.fetchRedditHandler)
	s.router.Handle("GET /metrics", promhttp.Handler())

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// rateLimiter limits requests per client IP within a one minute window
func rateLimiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			renderError(w, r, errors.New("rate limit exceeded"), http.StatusTooManyRequests)
		}),
	)
}

// relayDeadline extends the connection deadlines for relay requests. A relay sends to the webhook
// item by item and can run much longer than the server's regular timeout.
func relayDeadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := http.NewResponseController(w)
			deadline := time.Now().Add(timeout)
			if err := rc.SetReadDeadline(deadline); err != nil {
				log.Printf("[DEBUG] can't extend read deadline for %s: %v", r.URL.Path, err)
			}
			if err := rc.SetWriteDeadline(deadline); err != nil {
				log.Printf("[DEBUG] can't extend write deadline for %s: %v", r.URL.Path, err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.cfg.Version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
