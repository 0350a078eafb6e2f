/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// MemoryBus keeps events inside the process.
type MemoryBus struct {
	*events.Bus
}

// NewMemoryBus creates an in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{Bus: events.NewBus()}
}

// Publish delivers to local subscribers.
func (mb *MemoryBus) Publish(eventType events.EventType, payload events.Payload) {
	mb.Bus.Publish(eventType, payload)
	telemetry.EventsPublished.WithLabelValues(string(eventType), "memory").Inc()
}

// Close is a no-op.
func (mb *MemoryBus) Close() error { return nil }
