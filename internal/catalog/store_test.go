/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/friendsincode/rosterboard/internal/db"
	"github.com/friendsincode/rosterboard/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })
	return database
}

func TestStoreReplaceThenLoad(t *testing.T) {
	database := newTestDB(t)
	store := NewStore(database, zerolog.Nop())
	ctx := context.Background()

	want, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := store.Replace(ctx, want); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(want.Definition(), got.Definition()) {
		t.Fatal("catalog read back from the database differs from the one written")
	}
	if len(got.Warnings()) != len(want.Warnings()) {
		t.Fatalf("warnings = %d, want %d", len(got.Warnings()), len(want.Warnings()))
	}

	// A second import replaces rather than appends.
	small, err := New(Definition{
		Slots:  []Slot{{ID: "only", Day: Sunday, Label: "1st Run", Hours: 2}},
		People: []Person{{ID: "p1", Name: "One", MaxHours: 10}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Replace(ctx, small); err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Slots()) != 1 || len(got.People()) != 1 || len(got.Rules()) != 0 {
		t.Fatalf("after replace: %d slots, %d people, %d rules", len(got.Slots()), len(got.People()), len(got.Rules()))
	}
}

func TestMigrateNormalizesStoredDays(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	rows := []models.CatalogSlot{
		{ID: "a", Position: 0, Day: "sun", Label: "1st Run", Hours: 1},
		{ID: "b", Position: 1, Day: "WED", Label: "1st Run", Hours: 1},
	}
	if err := database.Create(&rows).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cat, err := NewStore(database, zerolog.Nop()).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for id, want := range map[string]Day{"a": Sunday, "b": Wednesday} {
		slot, ok := cat.Slot(id)
		if !ok || slot.Day != want {
			t.Fatalf("slot %s day = %q, want %q", id, slot.Day, want)
		}
	}
	for _, w := range cat.Warnings() {
		if w.Kind == WarnUnknownDay {
			t.Fatalf("unexpected unknown-day warning: %v", w)
		}
	}
}
