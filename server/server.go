package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/engager/pkg/automation"
	"github.com/umputun/engager/pkg/domain"
)

//go:generate moq -out mocks/settings.go -pkg mocks -skip-ensure -fmt goimports . SettingsStore
//go:generate moq -out mocks/status.go -pkg mocks -skip-ensure -fmt goimports . StatusProvider
//go:generate moq -out mocks/journal.go -pkg mocks -skip-ensure -fmt goimports . Journal
//go:generate moq -out mocks/prober.go -pkg mocks -skip-ensure -fmt goimports . Prober
//go:generate moq -out mocks/pinger.go -pkg mocks -skip-ensure -fmt goimports . Pinger

// Server is the control server: status, settings and engagement history
type Server struct {
	store   SettingsStore
	status  StatusProvider
	journal Journal
	prober  Prober
	db      Pinger
	listen  string
	timeout time.Duration
	baseURL string
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// SettingsStore reads and persists settings, Set notifies the automation loop
type SettingsStore interface {
	Get(ctx context.Context) (domain.Settings, error)
	Set(ctx context.Context, s domain.Settings) error
}

// StatusProvider reports automation loop state
type StatusProvider interface {
	Status() automation.Status
}

// Journal provides recorded engagement actions
type Journal interface {
	Recent(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error)
	CountByKind(ctx context.Context) (map[domain.ActionKind]int, error)
}

// Prober checks that an API key works with the configured endpoint and model
type Prober interface {
	Probe(ctx context.Context, s domain.Settings) error
}

// Pinger checks the database connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// Params defines server dependencies and options
type Params struct {
	Store   SettingsStore
	Status  StatusProvider
	Journal Journal
	Prober  Prober
	DB      Pinger // optional, reported in status
	Listen  string
	Timeout time.Duration
	BaseURL string // used for links in rss
	Version string
	Debug   bool
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{
		store:   p.Store,
		status:  p.Status,
		journal: p.Journal,
		prober:  p.Prober,
		db:      p.DB,
		listen:  p.Listen,
		timeout: p.Timeout,
		baseURL: strings.TrimRight(p.BaseURL, "/"),
		version: p.Version,
		debug:   p.Debug,
		router:  routegroup.New(http.NewServeMux()),
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
		ReadTimeout:       s.timeout,
		// settings update waits for the api probe
		WriteTimeout: s.timeout + 10*time.Second,
	}
	srv := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// ServeHTTP makes the server usable as http.Handler, used in tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("engager", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(log.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /settings", s.getSettingsHandler)
		r.HandleFunc("PUT /settings", s.putSettingsHandler)
		r.HandleFunc("GET /history", s.historyHandler)
	})

	s.router.HandleFunc("GET /rss/history", s.rssHistoryHandler)
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
