/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rosterboard"

// ─── HTTP ───────────────────────────────────────────────────────────────────

// APIRequestDuration tracks API latency by method, route pattern and status.
var APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "API request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "endpoint", "status"})

// APIRequestsTotal counts API requests.
var APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "api",
	Name:      "requests_total",
	Help:      "Total API requests.",
}, []string{"method", "endpoint", "status"})

// APIActiveConnections is the number of requests in flight.
var APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "api",
	Name:      "active_connections",
	Help:      "Requests currently being served.",
})

// WebsocketClients is the number of connected board event streams.
var WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "api",
	Name:      "websocket_clients",
	Help:      "Connected board event websocket clients.",
})

// ─── Roster ─────────────────────────────────────────────────────────────────

// RosterOperations counts ledger operations by kind and outcome.
var RosterOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "roster",
	Name:      "operations_total",
	Help:      "Assign and clear operations by outcome.",
}, []string{"operation", "outcome"})

// BoardSessionsActive is the number of live board sessions.
var BoardSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "board",
	Name:      "sessions_active",
	Help:      "Board sessions currently held in memory.",
})

// BoardSessionsExpired counts sessions dropped by the idle sweeper.
var BoardSessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "board",
	Name:      "sessions_expired_total",
	Help:      "Board sessions removed after their idle timeout.",
})

// CatalogWarnings is the number of warnings the loaded catalog produced.
var CatalogWarnings = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "catalog",
	Name:      "warnings",
	Help:      "Suspect catalog entries by kind.",
}, []string{"kind"})

// ─── Events ─────────────────────────────────────────────────────────────────

// EventsPublished counts events handed to the bus by type and backend.
var EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "events",
	Name:      "published_total",
	Help:      "Events published by type and backend.",
}, []string{"type", "backend"})

// EventsDropped counts events a slow subscriber missed.
var EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "events",
	Name:      "dropped_total",
	Help:      "Events not delivered because a subscriber buffer was full.",
}, []string{"type"})

// ─── Database ───────────────────────────────────────────────────────────────

// DatabaseQueryDuration tracks catalog database latency.
var DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "db",
	Name:      "query_duration_seconds",
	Help:      "Database operation latency.",
	Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"operation", "table"})

// DatabaseErrorsTotal counts failed database operations.
var DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "db",
	Name:      "errors_total",
	Help:      "Failed database operations.",
}, []string{"operation", "table"})

// DatabaseConnectionsActive is the open connection count of the pool.
var DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "db",
	Name:      "connections_active",
	Help:      "Open database connections.",
})

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
