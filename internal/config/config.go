/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// CatalogSource selects where the static roster catalog is read from.
type CatalogSource string

const (
	CatalogEmbedded CatalogSource = "embedded"
	CatalogFile     CatalogSource = "file"
	CatalogDatabase CatalogSource = "database"
)

// EventBusBackend selects how roster events leave the process.
type EventBusBackend string

const (
	EventBusMemory EventBusBackend = "memory"
	EventBusRedis  EventBusBackend = "redis"
	EventBusNATS   EventBusBackend = "nats"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string

	CatalogSource CatalogSource
	CatalogPath   string
	DBBackend     DatabaseBackend
	DBDSN         string

	// Grouping is the slot grouping strategy for board views (block, label, route).
	Grouping          string
	SessionTTL        time.Duration
	SessionSigningKey string

	EventBus      EventBusBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string
	InstanceID    string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ROSTER_ENV", "development"),
		HTTPBind:    getEnv("ROSTER_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("ROSTER_HTTP_PORT", 8080),
		MetricsBind: getEnv("ROSTER_METRICS_BIND", "127.0.0.1:9000"),

		CatalogSource: CatalogSource(strings.ToLower(getEnv("ROSTER_CATALOG_SOURCE", string(CatalogEmbedded)))),
		CatalogPath:   getEnv("ROSTER_CATALOG_PATH", ""),
		DBBackend:     DatabaseBackend(strings.ToLower(getEnv("ROSTER_DB_BACKEND", string(DatabaseSQLite)))),
		DBDSN:         getEnv("ROSTER_DB_DSN", ""),

		Grouping:          strings.ToLower(getEnv("ROSTER_GROUPING", "block")),
		SessionTTL:        time.Duration(getEnvInt("ROSTER_SESSION_TTL_MINUTES", 720)) * time.Minute,
		SessionSigningKey: getEnv("ROSTER_SESSION_SIGNING_KEY", ""),

		EventBus:      EventBusBackend(strings.ToLower(getEnv("ROSTER_EVENTBUS", string(EventBusMemory)))),
		RedisAddr:     getEnv("ROSTER_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("ROSTER_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("ROSTER_REDIS_DB", 0),
		NATSURL:       getEnv("ROSTER_NATS_URL", "nats://localhost:4222"),
		InstanceID:    getEnv("ROSTER_INSTANCE_ID", ""),

		TracingEnabled:    getEnvBool("ROSTER_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("ROSTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("ROSTER_TRACING_SAMPLE_RATE", 1.0),
	}

	switch cfg.CatalogSource {
	case CatalogEmbedded:
	case CatalogFile:
		if cfg.CatalogPath == "" {
			return nil, fmt.Errorf("ROSTER_CATALOG_PATH must be provided when ROSTER_CATALOG_SOURCE=file")
		}
	case CatalogDatabase:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("ROSTER_DB_DSN must be provided when ROSTER_CATALOG_SOURCE=database")
		}
	default:
		return nil, fmt.Errorf("unsupported catalog source %q", cfg.CatalogSource)
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	switch cfg.Grouping {
	case "block", "label", "route":
	default:
		return nil, fmt.Errorf("unsupported grouping %q", cfg.Grouping)
	}

	if cfg.EventBus != EventBusMemory && cfg.EventBus != EventBusRedis && cfg.EventBus != EventBusNATS {
		return nil, fmt.Errorf("unsupported event bus %q", cfg.EventBus)
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("ROSTER_SESSION_TTL_MINUTES must be positive")
	}

	if strings.EqualFold(cfg.Environment, "production") && cfg.SessionSigningKey == "" {
		return nil, fmt.Errorf("ROSTER_SESSION_SIGNING_KEY must be provided in production")
	}

	return cfg, nil
}

// HTTPAddr is the listen address of the board API.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "true" || v == "1" || v == "yes" {
			return true
		}
		if v == "false" || v == "0" || v == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}
