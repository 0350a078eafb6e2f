/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package roster keeps the assignment map and every driver's accumulated
// minutes. The two only change together, through Assign and Clear, so that a
// driver's total always equals the minutes of the slots they hold.
package roster

import (
	"sort"
	"sync"

	"github.com/friendsincode/rosterboard/internal/catalog"
)

// Outcome classifies what an Assign or Clear call did. Only Assigned and
// Cleared change state; every other outcome is a no-op.
type Outcome string

const (
	Assigned         Outcome = "assigned"
	Cleared          Outcome = "cleared"
	InvalidReference Outcome = "invalid_reference"
	Ineligible       Outcome = "ineligible"
	Occupied         Outcome = "occupied"
	Redundant        Outcome = "redundant"
)

// Changed reports whether the outcome mutated the ledger.
func (o Outcome) Changed() bool {
	return o == Assigned || o == Cleared
}

// Ledger is the mutable roster state for one board.
type Ledger struct {
	catalog *catalog.Catalog

	mu          sync.RWMutex
	assignments map[string]string // slot id -> person id
	accumulated map[string]int    // person id -> minutes
}

// NewLedger creates an empty ledger over an immutable catalog.
func NewLedger(cat *catalog.Catalog) *Ledger {
	l := &Ledger{catalog: cat}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	people := l.catalog.People()
	l.assignments = make(map[string]string)
	l.accumulated = make(map[string]int, len(people))
	for _, p := range people {
		l.accumulated[p.ID] = 0
	}
}

// Catalog returns the catalog the ledger was built on.
func (l *Ledger) Catalog() *catalog.Catalog {
	return l.catalog
}

// Assign gives slotID to personID. Preconditions are checked in order and
// the first failure leaves the ledger untouched: both ids must exist, the slot
// must not be restricted for the person, and the slot must be free. Assigning
// a slot to its current holder is a no-op.
func (l *Ledger) Assign(personID, slotID string) Outcome {
	slot, ok := l.catalog.Slot(slotID)
	if !ok {
		return InvalidReference
	}
	if _, ok := l.catalog.Person(personID); !ok {
		return InvalidReference
	}
	if l.catalog.Restricted(personID, slotID) {
		return Ineligible
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if holder, taken := l.assignments[slotID]; taken {
		if holder == personID {
			return Redundant
		}
		return Occupied
	}

	l.assignments[slotID] = personID
	l.accumulated[personID] += slot.Minutes
	return Assigned
}

// Clear frees slotID and takes its minutes off the holder. Clearing never
// checks restrictions.
func (l *Ledger) Clear(slotID string) Outcome {
	slot, ok := l.catalog.Slot(slotID)
	if !ok {
		return InvalidReference
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holder, taken := l.assignments[slotID]
	if !taken {
		return Redundant
	}

	delete(l.assignments, slotID)
	l.accumulated[holder] -= slot.Minutes
	return Cleared
}

// Reset clears every assignment and zeroes every total.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

// Holder returns the person holding slotID.
func (l *Ledger) Holder(slotID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	personID, ok := l.assignments[slotID]
	return personID, ok
}

// AccumulatedMinutes returns personID's current total. Unknown ids report 0.
func (l *Ledger) AccumulatedMinutes(personID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.accumulated[personID]
}

// Assignments returns a copy of the slot -> person map.
func (l *Ledger) Assignments() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.assignments))
	for slotID, personID := range l.assignments {
		out[slotID] = personID
	}
	return out
}

// Snapshot is a consistent copy of the ledger state.
type Snapshot struct {
	Assignments map[string]string `json:"assignments"`
	Accumulated map[string]int    `json:"accumulated_minutes"`
}

// Snapshot copies assignments and totals under one lock.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := Snapshot{
		Assignments: make(map[string]string, len(l.assignments)),
		Accumulated: make(map[string]int, len(l.accumulated)),
	}
	for slotID, personID := range l.assignments {
		snap.Assignments[slotID] = personID
	}
	for personID, minutes := range l.accumulated {
		snap.Accumulated[personID] = minutes
	}
	return snap
}

// SlotsHeldBy returns the slot ids held by personID in catalog order.
func (l *Ledger) SlotsHeldBy(personID string) []string {
	l.mu.RLock()
	held := make(map[string]struct{})
	for slotID, holder := range l.assignments {
		if holder == personID {
			held[slotID] = struct{}{}
		}
	}
	l.mu.RUnlock()

	out := make([]string, 0, len(held))
	for _, s := range l.catalog.Slots() {
		if _, ok := held[s.ID]; ok {
			out = append(out, s.ID)
		}
	}
	return out
}

// Verify recomputes every total from the assignment map and returns the ids
// of people whose stored total disagrees, sorted. An empty result means the
// ledger is consistent.
func (l *Ledger) Verify() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	want := make(map[string]int, len(l.accumulated))
	for slotID, personID := range l.assignments {
		slot, _ := l.catalog.Slot(slotID)
		want[personID] += slot.Minutes
	}

	var drift []string
	for personID, got := range l.accumulated {
		if want[personID] != got {
			drift = append(drift, personID)
		}
	}
	for personID := range want {
		if _, ok := l.accumulated[personID]; !ok {
			drift = append(drift, personID)
		}
	}
	sort.Strings(drift)
	return drift
}
