/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"errors"
	"time"

	"github.com/friendsincode/rosterboard/internal/telemetry"
	"gorm.io/gorm"
)

const (
	_startTime = "gorm:start_time"
)

type callbackRegisterer interface {
	Register(name string, fn func(*gorm.DB)) error
}

// RegisterCallbacks records query duration and errors for every CRUD
// operation gorm runs against the catalog tables.
func RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	if err := register(cb.Query().Before("gorm:query"), cb.Query().After("gorm:query"), "query"); err != nil {
		return err
	}
	if err := register(cb.Create().Before("gorm:create"), cb.Create().After("gorm:create"), "create"); err != nil {
		return err
	}
	if err := register(cb.Update().Before("gorm:update"), cb.Update().After("gorm:update"), "update"); err != nil {
		return err
	}
	if err := register(cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete"), "delete"); err != nil {
		return err
	}
	return nil
}

func register(before, after callbackRegisterer, operation string) error {
	if err := before.Register("telemetry:before_"+operation, beforeCallback); err != nil {
		return err
	}
	return after.Register("telemetry:after_"+operation, afterCallback(operation))
}

func beforeCallback(db *gorm.DB) {
	db.InstanceSet(_startTime, time.Now())
}

func afterCallback(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(_startTime)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}

		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		telemetry.DatabaseQueryDuration.WithLabelValues(operation, table).Observe(time.Since(started).Seconds())

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			telemetry.DatabaseErrorsTotal.WithLabelValues(operation, table).Inc()
		}
	}
}

// UpdateConnectionMetrics publishes the open connection count.
func UpdateConnectionMetrics(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	telemetry.DatabaseConnectionsActive.Set(float64(sqlDB.Stats().OpenConnections))
}
