/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// CatalogSlot is one weekly shift row.
type CatalogSlot struct {
	ID       string  `gorm:"type:varchar(128);primaryKey"`
	Position int     `gorm:"not null;index:idx_catalog_slots_position"` // Catalog order
	Day      string  `gorm:"type:varchar(8);not null"`
	Label    string  `gorm:"type:varchar(255);not null"`
	Route    string  `gorm:"type:varchar(255)"`
	Hours    float64 `gorm:"not null"` // Raw H.MM value, normalized on load

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (CatalogSlot) TableName() string {
	return "catalog_slots"
}

// CatalogPerson is one driver row.
type CatalogPerson struct {
	ID       string `gorm:"type:varchar(128);primaryKey"`
	Position int    `gorm:"not null;index:idx_catalog_people_position"`
	Name     string `gorm:"type:varchar(255);not null"`
	MaxHours int    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (CatalogPerson) TableName() string {
	return "catalog_people"
}

// CatalogRestriction forbids a person from one slot. SlotID is not a foreign
// key: restrictions naming unknown slots are kept and reported as warnings.
type CatalogRestriction struct {
	PersonID string `gorm:"type:varchar(128);primaryKey"`
	SlotID   string `gorm:"type:varchar(255);primaryKey"`
	Position int    `gorm:"not null"`

	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (CatalogRestriction) TableName() string {
	return "catalog_restrictions"
}

// CatalogHeading is a block-grouping heading.
type CatalogHeading struct {
	ID       uint   `gorm:"primaryKey"`
	Position int    `gorm:"not null;uniqueIndex:idx_catalog_headings_position"`
	Title    string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM.
func (CatalogHeading) TableName() string {
	return "catalog_headings"
}
