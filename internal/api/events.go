/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	ws "nhooyr.io/websocket"

	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

const pingInterval = 15 * time.Second

// handleEvents streams board views for one session. The current view is sent
// on connect; afterwards every command on the session pushes a new one. The
// socket closes when the session is deleted or expires.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	conn, err := ws.Accept(w, r, &ws.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		a.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(ws.StatusInternalError, "server error")

	telemetry.WebsocketClients.Inc()
	defer telemetry.WebsocketClients.Dec()

	updates := a.bus.Subscribe(events.EventBoardUpdated)
	defer a.bus.Unsubscribe(events.EventBoardUpdated, updates)
	closed := a.bus.Subscribe(events.EventSessionClosed)
	defer a.bus.Unsubscribe(events.EventSessionClosed, closed)
	expired := a.bus.Subscribe(events.EventSessionExpired)
	defer a.bus.Unsubscribe(events.EventSessionExpired, expired)

	// Clients only send close frames; CloseRead handles them and cancels ctx.
	ctx := conn.CloseRead(r.Context())

	if err := writeEvent(ctx, conn, events.EventBoardUpdated, s.View()); err != nil {
		a.logger.Debug().Err(err).Msg("websocket initial write failed")
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(ws.StatusNormalClosure, "")
			return
		case <-ticker.C:
			if err := conn.Write(ctx, ws.MessageText, []byte(`{"type":"ping"}`)); err != nil {
				a.logger.Debug().Err(err).Msg("websocket ping failed")
				return
			}
		case payload, ok := <-updates:
			if !ok {
				return
			}
			if payload.SessionID() != s.ID() {
				continue
			}
			if err := writeEvent(ctx, conn, events.EventBoardUpdated, payload["view"]); err != nil {
				a.logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case payload, ok := <-closed:
			if !ok || payload.SessionID() == s.ID() {
				conn.Close(ws.StatusNormalClosure, "session closed")
				return
			}
		case payload, ok := <-expired:
			if !ok || payload.SessionID() == s.ID() {
				conn.Close(ws.StatusNormalClosure, "session expired")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *ws.Conn, eventType events.EventType, payload any) error {
	data, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		return err
	}
	return conn.Write(ctx, ws.MessageText, data)
}
