/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/auth"
	"github.com/friendsincode/rosterboard/internal/board"
	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/events"
)

// DefaultTokenTTL bounds how long a session token stays valid. Sessions
// usually expire well before this through the idle sweeper.
const DefaultTokenTTL = 7 * 24 * time.Hour

// API exposes the roster board over HTTP.
type API struct {
	boards   *board.Manager
	bus      events.Broker
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// New creates the API instance.
func New(boards *board.Manager, bus events.Broker, secret []byte, logger zerolog.Logger) *API {
	return &API{
		boards:   boards,
		bus:      bus,
		secret:   secret,
		tokenTTL: DefaultTokenTTL,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers API routes on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/catalog", a.handleCatalog)
		r.Post("/sessions", a.handleSessionCreate)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(auth.RequireSession(a.secret, sessionParam))
			r.Use(a.loadSession)

			r.Get("/", a.handleSessionView)
			r.Delete("/", a.handleSessionDelete)
			r.Post("/select", a.handleSelect)
			r.Post("/slots/{slotID}/activate", a.handleActivate)
			r.Post("/slots/{slotID}/clear", a.handleClear)
			r.Post("/reset", a.handleReset)
			r.Get("/events", a.handleEvents)
		})
	})
}

func sessionParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": a.boards.Len(),
	})
}

type catalogResponse struct {
	Grouping string              `json:"grouping"`
	Headings []string            `json:"headings"`
	Slots    []catalog.Slot      `json:"slots"`
	People   []catalog.Person    `json:"people"`
	Rules    map[string][]string `json:"rules"`
	Warnings []catalog.Warning   `json:"warnings"`
}

func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := a.boards.Catalog()
	warnings := cat.Warnings()
	if warnings == nil {
		warnings = []catalog.Warning{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Grouping: a.boards.Grouping(),
		Headings: cat.Headings(),
		Slots:    cat.Slots(),
		People:   cat.People(),
		Rules:    cat.Rules(),
		Warnings: warnings,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
