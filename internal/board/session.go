/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/roster"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// Session is one user's board: a ledger plus the currently selected driver.
// Every command runs under the session mutex and returns the resulting view.
type Session struct {
	id        string
	catalog   *catalog.Catalog
	groups    []SlotGroup
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
	createdAt time.Time
	lastSeen  atomic.Int64 // unix nanos

	mu     sync.Mutex
	ledger *roster.Ledger
	active string
}

func newSession(id string, cat *catalog.Catalog, groups []SlotGroup, publisher events.Publisher, now func() time.Time, logger zerolog.Logger) *Session {
	s := &Session{
		id:        id,
		catalog:   cat,
		groups:    groups,
		publisher: publisher,
		logger:    logger.With().Str("session_id", id).Logger(),
		now:       now,
		createdAt: now(),
		ledger:    roster.NewLedger(cat),
	}
	s.touch()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastSeen returns the time of the last command or view.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// ActivePerson returns the selected driver id, or "" when none is selected.
func (s *Session) ActivePerson() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Ledger exposes the session's roster ledger.
func (s *Session) Ledger() *roster.Ledger { return s.ledger }

// View returns the current board without changing anything.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.viewLocked("")
}

// SelectPerson toggles the selection: choosing the selected driver again or
// passing "" deselects. Unknown ids leave the selection unchanged.
func (s *Session) SelectPerson(personID string) View {
	s.mu.Lock()
	s.touch()

	switch {
	case personID == "" || personID == s.active:
		s.active = ""
	default:
		if _, ok := s.catalog.Person(personID); ok {
			s.active = personID
		} else {
			s.logger.Debug().Str("person_id", personID).Msg("ignoring selection of unknown person")
		}
	}
	active := s.active
	view := s.viewLocked("")
	s.mu.Unlock()

	s.publish(events.EventRosterSelected, events.Payload{"person_id": active})
	s.publishView(view)
	return view
}

// ActivateSlot assigns the slot to the selected driver, or clears it when no
// driver is selected.
func (s *Session) ActivateSlot(slotID string) View {
	s.mu.Lock()
	s.touch()

	var outcome roster.Outcome
	active := s.active
	if active != "" {
		outcome = s.ledger.Assign(active, slotID)
		s.record("assign", outcome, active, slotID)
	} else {
		outcome = s.ledger.Clear(slotID)
		s.record("clear", outcome, "", slotID)
	}
	view := s.viewLocked(outcome)
	s.mu.Unlock()

	s.publishOutcome(outcome, active, slotID)
	s.publishView(view)
	return view
}

// ClearSlot frees the slot whatever the selection.
func (s *Session) ClearSlot(slotID string) View {
	s.mu.Lock()
	s.touch()

	outcome := s.ledger.Clear(slotID)
	s.record("clear", outcome, "", slotID)
	view := s.viewLocked(outcome)
	s.mu.Unlock()

	s.publishOutcome(outcome, "", slotID)
	s.publishView(view)
	return view
}

// Reset drops every assignment and the selection.
func (s *Session) Reset() View {
	s.mu.Lock()
	s.touch()
	s.ledger.Reset()
	s.active = ""
	view := s.viewLocked("")
	s.mu.Unlock()

	s.logger.Info().Msg("board reset")
	s.publish(events.EventRosterReset, events.Payload{})
	s.publishView(view)
	return view
}

func (s *Session) viewLocked(outcome roster.Outcome) View {
	view := buildView(s.catalog, s.groups, s.ledger.Snapshot(), s.id, s.active)
	view.Outcome = outcome
	return view
}

func (s *Session) record(op string, outcome roster.Outcome, personID, slotID string) {
	telemetry.RosterOperations.WithLabelValues(op, string(outcome)).Inc()

	ev := s.logger.Debug()
	if outcome.Changed() {
		ev = s.logger.Info()
	}
	ev.Str("op", op).
		Str("outcome", string(outcome)).
		Str("person_id", personID).
		Str("slot_id", slotID).
		Msg("roster operation")
}

func (s *Session) publishOutcome(outcome roster.Outcome, personID, slotID string) {
	switch outcome {
	case roster.Assigned:
		slot, _ := s.catalog.Slot(slotID)
		s.publish(events.EventRosterAssigned, events.Payload{
			"person_id": personID,
			"slot_id":   slotID,
			"minutes":   slot.Minutes,
		})
	case roster.Cleared:
		s.publish(events.EventRosterCleared, events.Payload{"slot_id": slotID})
	}
}

func (s *Session) publishView(view View) {
	s.publish(events.EventBoardUpdated, events.Payload{"view": view})
}

func (s *Session) publish(eventType events.EventType, payload events.Payload) {
	if s.publisher == nil {
		return
	}
	payload["session_id"] = s.id
	s.publisher.Publish(eventType, payload)
}
