/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/config"
	"github.com/friendsincode/rosterboard/internal/events"
)

func TestMessageRoundTrip(t *testing.T) {
	data, err := marshalMessage(events.EventRosterAssigned, events.Payload{"slot_id": "ber-sun-1", "minutes": 375}, "node-a")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	msg, err := unmarshalMessage(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.EventType != events.EventRosterAssigned || msg.NodeID != "node-a" || msg.MessageID == "" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	if msg.Payload["slot_id"] != "ber-sun-1" {
		t.Fatalf("payload = %v", msg.Payload)
	}
	// JSON numbers decode as float64.
	if msg.Payload["minutes"] != float64(375) {
		t.Fatalf("minutes = %v", msg.Payload["minutes"])
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	for _, data := range []string{"not json", `{"payload":{}}`} {
		if _, err := unmarshalMessage([]byte(data)); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestSubjectFor(t *testing.T) {
	if got := subjectFor(events.EventBoardUpdated); got != "rosterboard.events.board.updated" {
		t.Fatalf("subject = %q", got)
	}
}

func TestNodeID(t *testing.T) {
	if got := NodeID("fixed"); got != "fixed" {
		t.Fatalf("NodeID = %q", got)
	}
	a, b := NodeID(""), NodeID("")
	if a == b || !strings.Contains(a, "-") {
		t.Fatalf("generated ids %q and %q should differ", a, b)
	}
}

func assertLocalDelivery(t *testing.T, bus Bus) {
	t.Helper()

	sub := bus.Subscribe(events.EventBoardUpdated)
	defer bus.Unsubscribe(events.EventBoardUpdated, sub)

	bus.Publish(events.EventBoardUpdated, events.Payload{"session_id": "s-1"})

	select {
	case got := <-sub:
		if got.SessionID() != "s-1" {
			t.Fatalf("payload = %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for local delivery")
	}
}

func TestMemoryBusDeliversLocally(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()
	assertLocalDelivery(t, bus)
}

func TestRedisBusFallsBackWhenUnreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 200 * time.Millisecond

	bus, err := NewRedisBus(cfg, "node-test", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer bus.Close()

	if !bus.useFallback {
		t.Fatal("expected fallback mode")
	}
	assertLocalDelivery(t, bus)
}

func TestNATSBusFallsBackWhenUnreachable(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = "nats://127.0.0.1:1"
	cfg.Timeout = 200 * time.Millisecond

	bus, err := NewNATSBus(cfg, "node-test", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewNATSBus: %v", err)
	}
	defer bus.Close()

	if bus.Connected() {
		t.Fatal("expected no NATS connection")
	}
	assertLocalDelivery(t, bus)
}

func TestNewSelectsBackend(t *testing.T) {
	bus, err := New(&config.Config{EventBus: config.EventBusMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := bus.(*MemoryBus); !ok {
		t.Fatalf("bus = %T, want *MemoryBus", bus)
	}

	if _, err := New(&config.Config{EventBus: "kafka"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
