/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// NATSConfig contains NATS connection configuration.
type NATSConfig struct {
	URL   string
	Token string

	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultNATSConfig returns default NATS configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		MaxReconnects: -1, // Unlimited
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NATSBus mirrors events over core NATS subjects
// ("rosterboard.events.<type>"). The nats client buffers publishes while it
// reconnects, so there is no separate circuit breaker here.
type NATSBus struct {
	*events.Bus

	conn   *nats.Conn
	sub    *nats.Subscription
	logger zerolog.Logger
	nodeID string
}

// NewNATSBus connects to NATS. If the first connect fails the bus runs
// in-memory only for the life of the process.
func NewNATSBus(cfg NATSConfig, nodeID string, logger zerolog.Logger) (*NATSBus, error) {
	nb := &NATSBus{
		Bus:    events.NewBus(),
		logger: logger.With().Str("component", "eventbus_nats").Logger(),
		nodeID: nodeID,
	}

	opts := []nats.Option{
		nats.Name("rosterboard-" + nodeID),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			nb.logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			nb.logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		nb.logger.Warn().Err(err).Str("url", cfg.URL).Msg("NATS connection failed, using in-memory fallback")
		return nb, nil
	}

	sub, err := conn.Subscribe(SubjectPrefix+">", nb.handleMessage)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to %s>: %w", SubjectPrefix, err)
	}

	nb.conn = conn
	nb.sub = sub
	nb.logger.Info().Str("url", conn.ConnectedUrl()).Str("node_id", nodeID).Msg("NATS event bus initialized")
	return nb, nil
}

func (nb *NATSBus) handleMessage(msg *nats.Msg) {
	decoded, err := unmarshalMessage(msg.Data)
	if err != nil {
		nb.logger.Error().Err(err).Str("subject", msg.Subject).Msg("failed to decode NATS event")
		return
	}
	if decoded.NodeID == nb.nodeID {
		return
	}
	nb.Bus.Publish(decoded.EventType, decoded.Payload)
}

// Connected reports whether the bus is attached to a NATS server.
func (nb *NATSBus) Connected() bool {
	return nb.conn != nil && nb.conn.IsConnected()
}

// Publish delivers locally, then mirrors the event to NATS.
func (nb *NATSBus) Publish(eventType events.EventType, payload events.Payload) {
	nb.Bus.Publish(eventType, payload)

	if nb.conn == nil {
		telemetry.EventsPublished.WithLabelValues(string(eventType), "memory").Inc()
		return
	}

	data, err := marshalMessage(eventType, payload, nb.nodeID)
	if err != nil {
		nb.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to encode event")
		return
	}
	if err := nb.conn.Publish(subjectFor(eventType), data); err != nil {
		nb.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to publish to NATS")
		return
	}
	telemetry.EventsPublished.WithLabelValues(string(eventType), "nats").Inc()
}

// Close drains the subscription and closes the connection.
func (nb *NATSBus) Close() error {
	if nb.conn == nil {
		return nil
	}
	if err := nb.conn.Drain(); err != nil {
		nb.conn.Close()
		return fmt.Errorf("drain nats connection: %w", err)
	}
	nb.logger.Info().Msg("NATS event bus closed")
	return nil
}
