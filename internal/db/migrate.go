/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"
	"strings"

	"github.com/friendsincode/rosterboard/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the catalog tables.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.CatalogHeading{},
		&models.CatalogSlot{},
		&models.CatalogPerson{},
		&models.CatalogRestriction{},
	); err != nil {
		return err
	}

	if err := normalizeSlotDays(database); err != nil {
		return err
	}

	return nil
}

// normalizeSlotDays rewrites day values stored in lower or upper case
// ("sun", "SUN") to the canonical three-letter form the catalog expects.
func normalizeSlotDays(database *gorm.DB) error {
	for _, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		if err := database.Model(&models.CatalogSlot{}).
			Where("LOWER(day) = ? AND day <> ?", strings.ToLower(day), day).
			Update("day", day).Error; err != nil {
			return fmt.Errorf("normalize slot day %s: %w", day, err)
		}
	}
	return nil
}
