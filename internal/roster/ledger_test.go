/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"math/rand"
	"testing"

	"github.com/friendsincode/rosterboard/internal/catalog"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New(catalog.Definition{
		Slots: []catalog.Slot{
			{ID: "s1", Day: catalog.Sunday, Label: "1st Run", Hours: 6.15},
			{ID: "s2", Day: catalog.Monday, Label: "1st Run", Hours: 4.5},
			{ID: "s3", Day: catalog.Tuesday, Label: "2nd Run", Hours: 4.45},
			{ID: "s4", Day: catalog.Wednesday, Label: "Overnight Run", Hours: 6},
			{ID: "s5", Day: catalog.Thursday, Label: "3rd Run", Hours: 2.5},
		},
		People: []catalog.Person{
			{ID: "p1", Name: "Basim", MaxHours: 24},
			{ID: "p2", Name: "Chelsee", MaxHours: 40},
			{ID: "p3", Name: "Colin", MaxHours: 40},
		},
		Rules: map[string][]string{
			"p2": {"s3"},
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func TestAssignThenClearScenario(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	if got := l.Assign("p1", "s1"); got != Assigned {
		t.Fatalf("Assign outcome = %q, want assigned", got)
	}
	if holder, ok := l.Holder("s1"); !ok || holder != "p1" {
		t.Fatalf("holder of s1 = %q (%v), want p1", holder, ok)
	}
	if got := l.AccumulatedMinutes("p1"); got != 375 {
		t.Fatalf("p1 minutes = %d, want 375", got)
	}

	if got := l.Clear("s1"); got != Cleared {
		t.Fatalf("Clear outcome = %q, want cleared", got)
	}
	if _, ok := l.Assignments()["s1"]; ok {
		t.Fatal("expected s1 to be unassigned")
	}
	if got := l.AccumulatedMinutes("p1"); got != 0 {
		t.Fatalf("p1 minutes = %d, want 0", got)
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	l.Assign("p1", "s2")
	before := l.Snapshot()

	if got := l.Assign("p1", "s2"); got != Redundant {
		t.Fatalf("second Assign outcome = %q, want redundant", got)
	}
	after := l.Snapshot()
	if after.Accumulated["p1"] != before.Accumulated["p1"] || after.Accumulated["p1"] != 270 {
		t.Fatalf("p1 minutes changed on redundant assign: %d -> %d", before.Accumulated["p1"], after.Accumulated["p1"])
	}
	if len(after.Assignments) != 1 {
		t.Fatalf("assignments = %v", after.Assignments)
	}
}

func TestAssignDoesNotOverwriteAnotherHolder(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	l.Assign("p1", "s4")
	if got := l.Assign("p3", "s4"); got != Occupied {
		t.Fatalf("outcome = %q, want occupied", got)
	}
	if holder, _ := l.Holder("s4"); holder != "p1" {
		t.Fatalf("holder = %q, want p1", holder)
	}
	if got := l.AccumulatedMinutes("p3"); got != 0 {
		t.Fatalf("p3 minutes = %d, want 0", got)
	}
}

func TestAssignRespectsRestrictions(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	if got := l.Assign("p2", "s3"); got != Ineligible {
		t.Fatalf("outcome = %q, want ineligible", got)
	}
	if len(l.Assignments()) != 0 {
		t.Fatalf("assignments = %v, want empty", l.Assignments())
	}
	if got := l.AccumulatedMinutes("p2"); got != 0 {
		t.Fatalf("p2 minutes = %d, want 0", got)
	}
}

func TestRestrictionCheckedBeforeOccupancy(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	l.Assign("p1", "s3")
	if got := l.Assign("p2", "s3"); got != Ineligible {
		t.Fatalf("outcome = %q, want ineligible", got)
	}
}

func TestInvalidReferencesAreNoOps(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	tests := []struct {
		name string
		op   func() Outcome
	}{
		{"unknown slot", func() Outcome { return l.Assign("p1", "nope") }},
		{"unknown person", func() Outcome { return l.Assign("ghost", "s1") }},
		{"empty ids", func() Outcome { return l.Assign("", "") }},
		{"clear unknown slot", func() Outcome { return l.Clear("nope") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != InvalidReference {
				t.Fatalf("outcome = %q, want invalid_reference", got)
			}
			if len(l.Assignments()) != 0 {
				t.Fatalf("ledger changed: %v", l.Assignments())
			}
		})
	}
	if _, ok := l.Snapshot().Accumulated["ghost"]; ok {
		t.Fatal("unknown person must not get an accumulator")
	}
}

func TestClearUnassignedIsRedundant(t *testing.T) {
	l := NewLedger(newTestCatalog(t))
	if got := l.Clear("s5"); got != Redundant {
		t.Fatalf("outcome = %q, want redundant", got)
	}
}

func TestClearIgnoresRestrictions(t *testing.T) {
	l := NewLedger(newTestCatalog(t))
	l.Assign("p1", "s3")

	if got := l.Clear("s3"); got != Cleared {
		t.Fatalf("outcome = %q, want cleared", got)
	}
}

func TestReassignRequiresClear(t *testing.T) {
	l := NewLedger(newTestCatalog(t))

	l.Assign("p1", "s5")
	l.Clear("s5")
	if got := l.Assign("p3", "s5"); got != Assigned {
		t.Fatalf("outcome = %q, want assigned", got)
	}
	if l.AccumulatedMinutes("p1") != 0 || l.AccumulatedMinutes("p3") != 150 {
		t.Fatalf("totals p1=%d p3=%d", l.AccumulatedMinutes("p1"), l.AccumulatedMinutes("p3"))
	}
}

func TestSlotsHeldByInCatalogOrder(t *testing.T) {
	l := NewLedger(newTestCatalog(t))
	l.Assign("p3", "s4")
	l.Assign("p3", "s1")
	l.Assign("p1", "s2")

	got := l.SlotsHeldBy("p3")
	if len(got) != 2 || got[0] != "s1" || got[1] != "s4" {
		t.Fatalf("SlotsHeldBy(p3) = %v, want [s1 s4]", got)
	}
}

func TestResetEmptiesLedger(t *testing.T) {
	l := NewLedger(newTestCatalog(t))
	l.Assign("p1", "s1")
	l.Assign("p3", "s2")

	l.Reset()

	snap := l.Snapshot()
	if len(snap.Assignments) != 0 {
		t.Fatalf("assignments = %v", snap.Assignments)
	}
	for personID, minutes := range snap.Accumulated {
		if minutes != 0 {
			t.Fatalf("%s minutes = %d after reset", personID, minutes)
		}
	}
}

func TestTotalsMatchAssignmentsAfterRandomOperations(t *testing.T) {
	cat := newTestCatalog(t)
	l := NewLedger(cat)
	rng := rand.New(rand.NewSource(42))

	personIDs := []string{"p1", "p2", "p3", "ghost"}
	slotIDs := []string{"s1", "s2", "s3", "s4", "s5", "missing"}

	for i := 0; i < 2000; i++ {
		slotID := slotIDs[rng.Intn(len(slotIDs))]
		if rng.Intn(3) == 0 {
			l.Clear(slotID)
		} else {
			l.Assign(personIDs[rng.Intn(len(personIDs))], slotID)
		}

		if drift := l.Verify(); len(drift) != 0 {
			t.Fatalf("step %d: totals drifted for %v", i, drift)
		}

		snap := l.Snapshot()
		sums := map[string]int{}
		for sID, pID := range snap.Assignments {
			slot, ok := cat.Slot(sID)
			if !ok {
				t.Fatalf("step %d: assignment for unknown slot %q", i, sID)
			}
			if _, ok := cat.Person(pID); !ok {
				t.Fatalf("step %d: assignment to unknown person %q", i, pID)
			}
			if cat.Restricted(pID, sID) {
				t.Fatalf("step %d: restricted slot %s held by %s", i, sID, pID)
			}
			sums[pID] += slot.Minutes
		}
		for _, p := range cat.People() {
			if snap.Accumulated[p.ID] != sums[p.ID] {
				t.Fatalf("step %d: %s total %d, want %d", i, p.ID, snap.Accumulated[p.ID], sums[p.ID])
			}
		}
	}
}

func TestOutcomeChanged(t *testing.T) {
	for _, o := range []Outcome{Assigned, Cleared} {
		if !o.Changed() {
			t.Fatalf("%q should report a change", o)
		}
	}
	for _, o := range []Outcome{InvalidReference, Ineligible, Occupied, Redundant} {
		if o.Changed() {
			t.Fatalf("%q should not report a change", o)
		}
	}
}
