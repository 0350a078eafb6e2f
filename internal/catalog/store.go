/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/rosterboard/internal/models"
)

// Store reads and replaces the catalog kept in a database. It never stores
// assignment state.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore creates a catalog store.
func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "catalog_store").Logger(),
	}
}

// Load builds a Catalog from the catalog tables.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	db := s.db.WithContext(ctx)

	var headings []models.CatalogHeading
	if err := db.Order("position ASC").Find(&headings).Error; err != nil {
		return nil, fmt.Errorf("load headings: %w", err)
	}
	var slots []models.CatalogSlot
	if err := db.Order("position ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	var people []models.CatalogPerson
	if err := db.Order("position ASC").Find(&people).Error; err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	var restrictions []models.CatalogRestriction
	if err := db.Order("person_id ASC, position ASC").Find(&restrictions).Error; err != nil {
		return nil, fmt.Errorf("load restrictions: %w", err)
	}

	def := Definition{
		Headings: make([]string, 0, len(headings)),
		Slots:    make([]Slot, 0, len(slots)),
		People:   make([]Person, 0, len(people)),
		Rules:    make(map[string][]string),
	}
	for _, h := range headings {
		def.Headings = append(def.Headings, h.Title)
	}
	for _, row := range slots {
		def.Slots = append(def.Slots, Slot{
			ID:    row.ID,
			Day:   Day(row.Day),
			Label: row.Label,
			Route: row.Route,
			Hours: row.Hours,
		})
	}
	for _, row := range people {
		def.People = append(def.People, Person{ID: row.ID, Name: row.Name, MaxHours: row.MaxHours})
	}
	for _, r := range restrictions {
		def.Rules[r.PersonID] = append(def.Rules[r.PersonID], r.SlotID)
	}

	cat, err := New(def)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("slots", len(def.Slots)).
		Int("people", len(def.People)).
		Int("warnings", len(cat.Warnings())).
		Msg("catalog loaded from database")
	return cat, nil
}

// Replace overwrites the catalog tables with c in a single transaction.
func (s *Store) Replace(ctx context.Context, c *Catalog) error {
	def := c.Definition()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.CatalogRestriction{}, &models.CatalogPerson{}, &models.CatalogSlot{}, &models.CatalogHeading{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
		}

		for i, title := range def.Headings {
			if err := tx.Create(&models.CatalogHeading{Position: i, Title: title}).Error; err != nil {
				return fmt.Errorf("insert heading %q: %w", title, err)
			}
		}
		for i, slot := range def.Slots {
			row := models.CatalogSlot{
				ID:       slot.ID,
				Position: i,
				Day:      string(slot.Day),
				Label:    slot.Label,
				Route:    slot.Route,
				Hours:    slot.Hours,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert slot %s: %w", slot.ID, err)
			}
		}
		for i, p := range def.People {
			row := models.CatalogPerson{ID: p.ID, Position: i, Name: p.Name, MaxHours: p.MaxHours}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert person %s: %w", p.ID, err)
			}
		}
		for _, owner := range c.RuleOwners() {
			for i, slotID := range def.Rules[owner] {
				row := models.CatalogRestriction{PersonID: owner, SlotID: slotID, Position: i}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert restriction %s/%s: %w", owner, slotID, err)
				}
			}
		}

		s.logger.Info().
			Int("slots", len(def.Slots)).
			Int("people", len(def.People)).
			Msg("catalog replaced")
		return nil
	})
}
