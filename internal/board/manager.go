/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL is used when Options.TTL is not positive.
const DefaultSessionTTL = 12 * time.Hour

// Options configures a Manager.
type Options struct {
	Grouper   Grouper
	Publisher events.Publisher
	// TTL is how long a session may sit idle before the sweeper drops it.
	TTL time.Duration
}

// Manager owns every live board session. Sessions share the immutable
// catalog; each has its own ledger.
type Manager struct {
	catalog   *catalog.Catalog
	groups    []SlotGroup
	grouping  string
	publisher events.Publisher
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager over cat.
func NewManager(cat *catalog.Catalog, opts Options, logger zerolog.Logger) *Manager {
	grouper := opts.Grouper
	if grouper == nil {
		grouper = BlockGrouper{Size: BlockSize}
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		catalog:   cat,
		groups:    grouper.Group(cat.Slots(), cat.Headings()),
		grouping:  grouper.Name(),
		publisher: opts.Publisher,
		ttl:       ttl,
		logger:    logger.With().Str("component", "board").Logger(),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Catalog returns the shared catalog.
func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// Grouping names the grouping strategy in use.
func (m *Manager) Grouping() string { return m.grouping }

// Create opens a new, empty session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := newSession(id, m.catalog, m.groups, m.publisher, m.now, m.logger)

	m.mu.Lock()
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	telemetry.BoardSessionsActive.Set(float64(count))
	m.logger.Info().Str("session_id", id).Msg("session created")
	m.publish(events.EventSessionCreated, id)
	return s
}

// Get looks up a session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes a session and discards its ledger.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	telemetry.BoardSessionsActive.Set(float64(count))
	m.logger.Info().Str("session_id", id).Msg("session closed")
	m.publish(events.EventSessionClosed, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the live session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}

	telemetry.BoardSessionsActive.Set(float64(count))
	telemetry.BoardSessionsExpired.Add(float64(len(expired)))
	for _, id := range expired {
		m.logger.Info().Str("session_id", id).Msg("session expired")
		m.publish(events.EventSessionExpired, id)
	}
	return len(expired)
}

// Run sweeps idle sessions until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info().Dur("ttl", m.ttl).Msg("session sweeper started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) publish(eventType events.EventType, sessionID string) {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(eventType, events.Payload{"session_id": sessionID})
}
