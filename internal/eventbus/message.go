/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package eventbus mirrors roster events to Redis or NATS so that other
// processes (dashboards, a second board node) can follow them. Local
// subscribers are always served by an in-memory events.Bus, which is also
// the fallback when the broker is unreachable.
package eventbus

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/rosterboard/internal/events"
)

// SubjectPrefix namespaces every mirrored event on the broker.
const SubjectPrefix = "rosterboard.events."

// Bus is an events.Broker that also needs closing.
type Bus interface {
	events.Broker
	Close() error
}

// message is the wire envelope shared by the Redis and NATS backends.
type message struct {
	EventType events.EventType `json:"event_type"`
	Payload   events.Payload   `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
	NodeID    string           `json:"node_id"`
	MessageID string           `json:"message_id"`
}

func marshalMessage(eventType events.EventType, payload events.Payload, nodeID string) ([]byte, error) {
	return json.Marshal(message{
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		NodeID:    nodeID,
		MessageID: uuid.NewString(),
	})
}

func unmarshalMessage(data []byte) (*message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal event message: %w", err)
	}
	if msg.EventType == "" {
		return nil, fmt.Errorf("unmarshal event message: missing event type")
	}
	return &msg, nil
}

func subjectFor(eventType events.EventType) string {
	return SubjectPrefix + string(eventType)
}

// NodeID returns id when set, otherwise hostname plus a random suffix.
func NodeID(id string) string {
	if id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "rosterboard"
	}
	return host + "-" + uuid.NewString()[:8]
}
