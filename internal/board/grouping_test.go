/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"reflect"
	"testing"

	"github.com/friendsincode/rosterboard/internal/catalog"
)

func TestBlockGrouperOnDefaultCatalog(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	groups := BlockGrouper{Size: BlockSize}.Group(cat.Slots(), cat.Headings())
	if len(groups) != 13 {
		t.Fatalf("groups = %d, want 13", len(groups))
	}

	wantTitles := []string{"Ankeny", "SF", "Bermuda", "Lincoln", "Fremont", "ITE", "Block 7", "Block 8"}
	for i, title := range wantTitles {
		if groups[i].Title != title {
			t.Fatalf("group %d title = %q, want %q", i, groups[i].Title, title)
		}
	}

	seen := 0
	for _, g := range groups {
		if len(g.SlotIDs) != BlockSize {
			t.Fatalf("group %q has %d slots", g.Title, len(g.SlotIDs))
		}
		seen += len(g.SlotIDs)
	}
	if seen != len(cat.Slots()) {
		t.Fatalf("grouped %d slots, want %d", seen, len(cat.Slots()))
	}
	if groups[2].SlotIDs[0] != "ber-sun-1" {
		t.Fatalf("Bermuda block starts with %q", groups[2].SlotIDs[0])
	}
}

func TestBlockGrouperShortTail(t *testing.T) {
	slots := []catalog.Slot{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := BlockGrouper{Size: 2}.Group(slots, nil)
	want := []SlotGroup{
		{Title: "Block 1", SlotIDs: []string{"a", "b"}},
		{Title: "Block 2", SlotIDs: []string{"c"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %+v", got)
	}

	if got := (BlockGrouper{}).Group(nil, nil); len(got) != 0 {
		t.Fatalf("empty catalog groups = %+v", got)
	}
}

func TestLabelAndRouteGroupers(t *testing.T) {
	slots := []catalog.Slot{
		{ID: "a", Label: "1st Run", Route: "Bermuda"},
		{ID: "b", Label: "1st Run", Route: "Lincoln"},
		{ID: "c", Label: "2nd Run", Route: "Bermuda"},
		{ID: "d", Label: "1st Run", Route: "Bermuda"},
		{ID: "e", Label: "Spare"},
	}

	byLabel := LabelGrouper{}.Group(slots, nil)
	wantLabel := []SlotGroup{
		{Title: "1st Run", SlotIDs: []string{"a", "b", "d"}},
		{Title: "2nd Run", SlotIDs: []string{"c"}},
		{Title: "Spare", SlotIDs: []string{"e"}},
	}
	if !reflect.DeepEqual(byLabel, wantLabel) {
		t.Fatalf("label groups = %+v", byLabel)
	}

	byRoute := RouteGrouper{}.Group(slots, nil)
	wantRoute := []SlotGroup{
		{Title: "Bermuda 1st Run", SlotIDs: []string{"a", "d"}},
		{Title: "Lincoln 1st Run", SlotIDs: []string{"b"}},
		{Title: "Bermuda 2nd Run", SlotIDs: []string{"c"}},
		{Title: "Spare", SlotIDs: []string{"e"}},
	}
	if !reflect.DeepEqual(byRoute, wantRoute) {
		t.Fatalf("route groups = %+v", byRoute)
	}
}

func TestNewGrouper(t *testing.T) {
	for _, name := range []string{"block", "label", "route"} {
		g, err := NewGrouper(name)
		if err != nil {
			t.Fatalf("NewGrouper(%q): %v", name, err)
		}
		if g.Name() != name {
			t.Fatalf("Name() = %q, want %q", g.Name(), name)
		}
	}
	if _, err := NewGrouper("hourly"); err == nil {
		t.Fatal("expected error for unknown grouping")
	}
}
