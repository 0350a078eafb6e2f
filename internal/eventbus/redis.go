/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/friendsincode/rosterboard/internal/events"
	"github.com/friendsincode/rosterboard/internal/telemetry"
)

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Circuit breaker
	MaxFailures   int
	CheckInterval time.Duration
}

// DefaultRedisConfig returns default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:          "localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		DialTimeout:   5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		MaxFailures:   5,
		CheckInterval: 30 * time.Second,
	}
}

// RedisBus mirrors events over Redis pub/sub. After MaxFailures consecutive
// publish errors it stops talking to Redis and retries a ping every
// CheckInterval.
type RedisBus struct {
	*events.Bus

	client *redis.Client
	pubsub *redis.PubSub
	logger zerolog.Logger
	nodeID string
	cfg    RedisConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	useFallback bool
	failCount   int
	lastCheck   time.Time
}

// NewRedisBus connects to Redis. An unreachable server is not an error: the
// bus starts in fallback mode and keeps serving local subscribers.
func NewRedisBus(cfg RedisConfig, nodeID string, logger zerolog.Logger) (*RedisBus, error) {
	ctx, cancel := context.WithCancel(context.Background())

	rb := &RedisBus{
		Bus:    events.NewBus(),
		logger: logger.With().Str("component", "eventbus_redis").Logger(),
		nodeID: nodeID,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.DialTimeout+time.Second)
	defer pingCancel()

	if err := rb.client.Ping(pingCtx).Err(); err != nil {
		rb.logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis connection failed, using in-memory fallback")
		rb.useFallback = true
		rb.lastCheck = time.Now()
		return rb, nil
	}

	rb.startReceiver()
	rb.logger.Info().Str("addr", cfg.Addr).Str("node_id", nodeID).Msg("Redis event bus initialized")
	return rb, nil
}

func (rb *RedisBus) startReceiver() {
	rb.pubsub = rb.client.PSubscribe(rb.ctx, SubjectPrefix+"*")
	rb.wg.Add(1)
	go rb.receiveMessages(rb.pubsub)
}

// receiveMessages republishes events from other nodes on the local bus.
func (rb *RedisBus) receiveMessages(pubsub *redis.PubSub) {
	defer rb.wg.Done()

	ch := pubsub.Channel()
	for {
		select {
		case <-rb.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				rb.logger.Warn().Msg("Redis subscription closed")
				return
			}

			decoded, err := unmarshalMessage([]byte(msg.Payload))
			if err != nil {
				rb.logger.Error().Err(err).Str("channel", msg.Channel).Msg("failed to decode Redis event")
				continue
			}
			if decoded.NodeID == rb.nodeID {
				continue
			}
			rb.Bus.Publish(decoded.EventType, decoded.Payload)
		}
	}
}

// Publish delivers locally, then mirrors the event to Redis.
func (rb *RedisBus) Publish(eventType events.EventType, payload events.Payload) {
	rb.Bus.Publish(eventType, payload)

	if rb.inFallback() {
		telemetry.EventsPublished.WithLabelValues(string(eventType), "memory").Inc()
		return
	}

	data, err := marshalMessage(eventType, payload, rb.nodeID)
	if err != nil {
		rb.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to encode event")
		return
	}

	ctx, cancel := context.WithTimeout(rb.ctx, 2*time.Second)
	defer cancel()

	if err := rb.client.Publish(ctx, subjectFor(eventType), data).Err(); err != nil {
		rb.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to publish to Redis")
		rb.handleFailure()
		return
	}

	rb.mu.Lock()
	rb.failCount = 0
	rb.mu.Unlock()
	telemetry.EventsPublished.WithLabelValues(string(eventType), "redis").Inc()
}

// inFallback reports whether Redis is bypassed, attempting a reconnect when
// the check interval has passed.
func (rb *RedisBus) inFallback() bool {
	rb.mu.Lock()
	fallback := rb.useFallback
	due := fallback && time.Since(rb.lastCheck) >= rb.cfg.CheckInterval
	rb.mu.Unlock()

	if due {
		if err := rb.tryReconnect(); err != nil {
			rb.logger.Debug().Err(err).Msg("Redis still unavailable")
			return true
		}
		return false
	}
	return fallback
}

func (rb *RedisBus) handleFailure() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.failCount++
	if rb.failCount >= rb.cfg.MaxFailures && !rb.useFallback {
		rb.logger.Warn().Int("fail_count", rb.failCount).Msg("Redis failure threshold reached, switching to in-memory fallback")
		rb.useFallback = true
		rb.lastCheck = time.Now()
	}
}

func (rb *RedisBus) tryReconnect() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if !rb.useFallback {
		return nil
	}
	rb.lastCheck = time.Now()

	ctx, cancel := context.WithTimeout(rb.ctx, rb.cfg.DialTimeout+time.Second)
	defer cancel()
	if err := rb.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	rb.useFallback = false
	rb.failCount = 0
	if rb.pubsub == nil {
		rb.startReceiver()
	}
	rb.logger.Info().Msg("reconnected to Redis, disabling fallback")
	return nil
}

// Close stops the receiver and closes the Redis client.
func (rb *RedisBus) Close() error {
	rb.cancel()

	rb.mu.Lock()
	if rb.pubsub != nil {
		_ = rb.pubsub.Close()
	}
	rb.mu.Unlock()
	rb.wg.Wait()

	if err := rb.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	rb.logger.Info().Msg("Redis event bus closed")
	return nil
}
