/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/rosterboard/internal/auth"
	"github.com/friendsincode/rosterboard/internal/board"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

type sessionContextKey struct{}

func sessionFromContext(ctx context.Context) *board.Session {
	s, _ := ctx.Value(sessionContextKey{}).(*board.Session)
	return s
}

// loadSession resolves {id} to a live session or answers 404.
func (a *API) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := a.boards.Get(sessionParam(r))
		if errors.Is(err, board.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "session_lookup_failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, s)))
	})
}

type sessionCreateResponse struct {
	SessionID string     `json:"session_id"`
	Token     string     `json:"token"`
	View      board.View `json:"view"`
}

func (a *API) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	s := a.boards.Create()

	token, err := auth.Issue(a.secret, auth.Claims{SessionID: s.ID()}, a.tokenTTL)
	if err != nil {
		a.logger.Error().Err(err).Str("session_id", s.ID()).Msg("issue session token failed")
		_ = a.boards.Delete(s.ID())
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	telemetry.Annotate(r.Context(), s.ID(), "", "")
	writeJSON(w, http.StatusCreated, sessionCreateResponse{
		SessionID: s.ID(),
		Token:     token,
		View:      s.View(),
	})
}

func (a *API) handleSessionView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFromContext(r.Context()).View())
}

func (a *API) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	if err := a.boards.Delete(s.ID()); err != nil {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectRequest struct {
	PersonID string `json:"person_id"`
}

func (a *API) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	s := sessionFromContext(r.Context())
	telemetry.Annotate(r.Context(), s.ID(), req.PersonID, "")
	writeJSON(w, http.StatusOK, s.SelectPerson(req.PersonID))
}

func (a *API) handleActivate(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	slotID := chi.URLParam(r, "slotID")
	telemetry.Annotate(r.Context(), s.ID(), s.ActivePerson(), slotID)
	writeJSON(w, http.StatusOK, s.ActivateSlot(slotID))
}

func (a *API) handleClear(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	slotID := chi.URLParam(r, "slotID")
	telemetry.Annotate(r.Context(), s.ID(), "", slotID)
	writeJSON(w, http.StatusOK, s.ClearSlot(slotID))
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFromContext(r.Context()).Reset())
}
