/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"errors"
	"testing"
)

func TestNewNormalizesSlotMinutes(t *testing.T) {
	cat, err := New(Definition{
		Slots: []Slot{
			{ID: "a", Day: Sunday, Label: "1st Run", Hours: 6.15},
			{ID: "b", Day: Monday, Label: "1st Run", Hours: 4.5},
			{ID: "c", Day: Tuesday, Label: "1st Run", Hours: 4.45},
			{ID: "d", Day: Friday, Label: "Overnight Run", Hours: 6},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := map[string]int{"a": 375, "b": 270, "c": 285, "d": 360}
	for id, minutes := range want {
		slot, ok := cat.Slot(id)
		if !ok {
			t.Fatalf("slot %s missing", id)
		}
		if slot.Minutes != minutes {
			t.Fatalf("slot %s minutes = %d, want %d", id, slot.Minutes, minutes)
		}
	}
	if len(cat.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", cat.Warnings())
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{
			name: "duplicate slot",
			def: Definition{Slots: []Slot{
				{ID: "a", Day: Sunday, Hours: 1},
				{ID: "a", Day: Monday, Hours: 2},
			}},
			want: ErrDuplicateSlot,
		},
		{
			name: "duplicate person",
			def: Definition{People: []Person{
				{ID: "p1", Name: "One", MaxHours: 40},
				{ID: "p1", Name: "Other", MaxHours: 20},
			}},
			want: ErrDuplicatePerson,
		},
		{
			name: "empty slot id",
			def:  Definition{Slots: []Slot{{Day: Sunday, Hours: 1}}},
			want: ErrEmptyID,
		},
		{
			name: "empty person id",
			def:  Definition{People: []Person{{Name: "Nobody"}}},
			want: ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.def)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewRecordsWarnings(t *testing.T) {
	cat, err := New(Definition{
		Slots: []Slot{
			{ID: "odd", Day: Sunday, Hours: 6.75},
			{ID: "noday", Day: "Funday", Hours: 1},
		},
		People: []Person{{ID: "p1", Name: "One", MaxHours: 40}},
		Rules: map[string][]string{
			"p1":     {"odd", "ghost", "odd,noday"},
			"nobody": {"odd"},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	kinds := map[WarningKind]string{}
	for _, w := range cat.Warnings() {
		kinds[w.Kind] = w.Subject
	}

	want := map[WarningKind]string{
		WarnSuspectDuration:  "odd",
		WarnUnknownDay:       "noday",
		WarnUnknownRuleSlot:  "p1",
		WarnCommaJoinedRule:  "p1",
		WarnUnknownRuleOwner: "nobody",
	}
	for kind, subject := range want {
		got, ok := kinds[kind]
		if !ok {
			t.Fatalf("missing %s warning in %v", kind, cat.Warnings())
		}
		if got != subject {
			t.Fatalf("%s subject = %q, want %q", kind, got, subject)
		}
	}

	// Suspect values are still loaded with the literal reading.
	slot, _ := cat.Slot("odd")
	if slot.Minutes != 435 {
		t.Fatalf("odd minutes = %d, want 435", slot.Minutes)
	}
	// Unmatched entries stay in the list and simply restrict nothing.
	if cat.Restricted("p1", "noday") {
		t.Fatal("comma-joined entry must not restrict its parts")
	}
	if !cat.Restricted("p1", "odd") {
		t.Fatal("expected p1 restricted from odd")
	}
}

func TestRuleListsAreDeduplicated(t *testing.T) {
	cat, err := New(Definition{
		Slots:  []Slot{{ID: "a", Day: Sunday, Hours: 1}, {ID: "b", Day: Sunday, Hours: 1}},
		People: []Person{{ID: "p1", Name: "One", MaxHours: 10}},
		Rules:  map[string][]string{"p1": {"b", "a", "b"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := cat.RestrictedSlots("p1")
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("RestrictedSlots = %v, want [b a]", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	cat, err := New(Definition{
		Headings: []string{"First"},
		Slots:    []Slot{{ID: "a", Day: Sunday, Hours: 1}},
		People:   []Person{{ID: "p1", Name: "One", MaxHours: 10}},
		Rules:    map[string][]string{"p1": {"a"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cat.Slots()[0].ID = "mutated"
	cat.People()[0].Name = "mutated"
	cat.Headings()[0] = "mutated"
	cat.Rules()["p1"][0] = "mutated"

	if _, ok := cat.Slot("a"); !ok || cat.Slots()[0].ID != "a" {
		t.Fatal("slot list was mutated through accessor")
	}
	if cat.People()[0].Name != "One" {
		t.Fatal("people list was mutated through accessor")
	}
	if cat.Headings()[0] != "First" {
		t.Fatal("headings were mutated through accessor")
	}
	if !cat.Restricted("p1", "a") || cat.RestrictedSlots("p1")[0] != "a" {
		t.Fatal("rules were mutated through accessor")
	}
}

func TestMaxWeeklyMinutes(t *testing.T) {
	p := Person{ID: "p", MaxHours: 40}
	if p.MaxWeeklyMinutes() != 2400 {
		t.Fatalf("MaxWeeklyMinutes = %d, want 2400", p.MaxWeeklyMinutes())
	}
}
