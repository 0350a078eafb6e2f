/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/rosterboard/internal/api"
	"github.com/friendsincode/rosterboard/internal/board"
	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/config"
	"github.com/friendsincode/rosterboard/internal/db"
	"github.com/friendsincode/rosterboard/internal/eventbus"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg           *config.Config
	logger        zerolog.Logger
	router        chi.Router
	httpServer    *http.Server
	metricsServer *http.Server
	closers       []func() error

	db      *gorm.DB
	catalog *catalog.Catalog
	bus     eventbus.Bus
	boards  *board.Manager
	api     *api.API

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.TracingMiddleware("rosterboard-api"))
	router.Use(telemetry.MetricsMiddleware)
	// Board event streams stay open for the life of the session.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(30 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := srv.initDependencies(); err != nil {
		_ = srv.Close()
		return nil, err
	}

	srv.configureRoutes()
	srv.startBackgroundWorkers()

	srv.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		// Websocket streams manage their own deadlines.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	if cfg.MetricsBind != "" {
		srv.metricsServer = &http.Server{
			Addr:              cfg.MetricsBind,
			Handler:           telemetry.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return srv, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) initDependencies() error {
	cat, err := s.loadCatalog(context.Background())
	if err != nil {
		return err
	}
	s.catalog = cat
	s.reportCatalog()

	bus, err := eventbus.New(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	s.bus = bus
	s.DeferClose(bus.Close)

	grouper, err := board.NewGrouper(s.cfg.Grouping)
	if err != nil {
		return err
	}
	s.boards = board.NewManager(cat, board.Options{
		Grouper:   grouper,
		Publisher: bus,
		TTL:       s.cfg.SessionTTL,
	}, s.logger)

	secret, err := s.signingKey()
	if err != nil {
		return err
	}
	s.api = api.New(s.boards, bus, secret, s.logger)

	s.logger.Info().
		Str("catalog_source", string(s.cfg.CatalogSource)).
		Str("event_bus", string(s.cfg.EventBus)).
		Str("grouping", grouper.Name()).
		Dur("session_ttl", s.cfg.SessionTTL).
		Msg("roster board ready")
	return nil
}

// loadCatalog reads the static catalog from the configured source.
func (s *Server) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch s.cfg.CatalogSource {
	case config.CatalogFile:
		cat, err := catalog.Load(s.cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog file: %w", err)
		}
		return cat, nil
	case config.CatalogDatabase:
		database, err := db.Connect(s.cfg)
		if err != nil {
			return nil, err
		}
		s.db = database
		s.DeferClose(func() error { return db.Close(database) })
		if err := db.Migrate(database); err != nil {
			return nil, err
		}
		cat, err := catalog.NewStore(database, s.logger).Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from database: %w", err)
		}
		return cat, nil
	default:
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded catalog: %w", err)
		}
		return cat, nil
	}
}

func (s *Server) reportCatalog() {
	counts := make(map[catalog.WarningKind]int)
	for _, w := range s.catalog.Warnings() {
		counts[w.Kind]++
		s.logger.Warn().
			Str("kind", string(w.Kind)).
			Str("subject", w.Subject).
			Msg(w.Message)
	}
	for kind, n := range counts {
		telemetry.CatalogWarnings.WithLabelValues(string(kind)).Set(float64(n))
	}
	s.logger.Info().
		Int("slots", len(s.catalog.Slots())).
		Int("people", len(s.catalog.People())).
		Int("warnings", len(s.catalog.Warnings())).
		Msg("catalog loaded")
}

func (s *Server) signingKey() ([]byte, error) {
	if s.cfg.SessionSigningKey != "" {
		return []byte(s.cfg.SessionSigningKey), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	s.logger.Warn().Msg("ROSTER_SESSION_SIGNING_KEY not set, using a random key; tokens will not survive a restart")
	return key, nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// MetricsServer returns the Prometheus listener, or nil when metrics are
// served from the main router.
func (s *Server) MetricsServer() *http.Server {
	return s.metricsServer
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Boards exposes the session manager.
func (s *Server) Boards() *board.Manager {
	return s.boards
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	s.stopBackgroundWorkers()
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Server) startBackgroundWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		if err := s.boards.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("session sweeper exited")
		}
	}()

	if s.db != nil {
		s.bgWG.Add(1)
		go func() {
			defer s.bgWG.Done()
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					db.UpdateConnectionMetrics(s.db)
				}
			}
		}()
	}
}

func (s *Server) stopBackgroundWorkers() {
	if s.bgCancel == nil {
		return
	}
	s.bgCancel()
	s.bgWG.Wait()
	s.bgCancel = nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if s.cfg.MetricsBind == "" {
		s.router.Handle("/metrics", telemetry.Handler())
	}

	s.api.Routes(s.router)
}
