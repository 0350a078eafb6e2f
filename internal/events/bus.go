/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import (
	"sync"

	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// EventType enumerates event categories.
type EventType string

const (
	// EventBoardUpdated carries a fresh board view after any command.
	EventBoardUpdated EventType = "board.updated"

	EventRosterAssigned EventType = "roster.assigned"
	EventRosterCleared  EventType = "roster.cleared"
	EventRosterSelected EventType = "roster.selected"
	EventRosterReset    EventType = "roster.reset"

	EventSessionCreated EventType = "session.created"
	EventSessionClosed  EventType = "session.closed"
	EventSessionExpired EventType = "session.expired"
)

// Payload generic event payload.
type Payload map[string]any

// SessionID returns the board session the payload belongs to, if any.
func (p Payload) SessionID() string {
	id, _ := p["session_id"].(string)
	return id
}

// Subscriber receives event payloads.
type Subscriber chan Payload

// Publisher is anything roster events can be handed to.
type Publisher interface {
	Publish(eventType EventType, payload Payload)
}

// Broker is a Publisher that local consumers can also subscribe to.
type Broker interface {
	Publisher
	Subscribe(eventType EventType) Subscriber
	Unsubscribe(eventType EventType, sub Subscriber)
}

const subscriberBuffer = 16

// Bus implements a simple in-process pubsub. Slow subscribers miss events
// rather than block publishers.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for event type.
func (b *Bus) Subscribe(eventType EventType) Subscriber {
	ch := make(Subscriber, subscriberBuffer)
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], ch)
	b.mu.Unlock()
	return ch
}

// Publish sends payload to subscribers.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[eventType] {
		select {
		case sub <- payload:
		default:
			telemetry.EventsDropped.WithLabelValues(string(eventType)).Inc()
		}
	}
}

// Unsubscribe removes the subscriber and closes it. Unknown subscribers are
// ignored.
func (b *Bus) Unsubscribe(eventType EventType, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, candidate := range subs {
		if candidate == sub {
			b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// SubscriberCount reports how many subscribers eventType has.
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}
