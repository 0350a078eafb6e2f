/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package catalog holds the static roster configuration: the weekly shift
// slots, the drivers and the per-driver slot restrictions. A Catalog is built
// once at startup and never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/friendsincode/rosterboard/internal/duration"
)

var (
	ErrDuplicateSlot   = errors.New("duplicate slot id")
	ErrDuplicatePerson = errors.New("duplicate person id")
	ErrEmptyID         = errors.New("empty id")
)

// Day is one of the seven weekdays a slot runs on.
type Day string

const (
	Sunday    Day = "Sun"
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
)

// Days lists the week in display order.
var Days = []Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Valid reports whether d is one of the seven known days.
func (d Day) Valid() bool {
	for _, known := range Days {
		if d == known {
			return true
		}
	}
	return false
}

// Slot is one weekly shift.
type Slot struct {
	ID    string  `json:"id" yaml:"id"`
	Day   Day     `json:"day" yaml:"day"`
	Label string  `json:"label" yaml:"label"`
	Route string  `json:"route,omitempty" yaml:"route,omitempty"`
	Hours float64 `json:"hours" yaml:"hours"`
	// Minutes is Hours normalized at load time.
	Minutes int `json:"minutes" yaml:"-"`
}

// Person is a driver as configured. Accumulated minutes live in the roster
// ledger, not here.
type Person struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	MaxHours int    `json:"max_hours" yaml:"max_hours"`
}

// MaxWeeklyMinutes is the configured weekly maximum in minutes.
func (p Person) MaxWeeklyMinutes() int {
	return p.MaxHours * 60
}

// WarningKind classifies a suspect catalog entry.
type WarningKind string

const (
	WarnSuspectDuration  WarningKind = "suspect_duration"
	WarnUnknownDay       WarningKind = "unknown_day"
	WarnUnknownRuleSlot  WarningKind = "unknown_rule_slot"
	WarnUnknownRuleOwner WarningKind = "unknown_rule_person"
	WarnCommaJoinedRule  WarningKind = "comma_joined_rule"
)

// Warning describes a catalog entry that loads fine but looks wrong.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Kind, w.Subject, w.Message)
}

// Definition is the raw input a Catalog is built from.
type Definition struct {
	Headings []string
	Slots    []Slot
	People   []Person
	// Rules maps a person id to the slot ids they may not take.
	Rules map[string][]string
}

// Catalog is the immutable roster configuration.
type Catalog struct {
	headings []string
	slots    []Slot
	slotIdx  map[string]int
	people   []Person
	personIx map[string]int
	rules    map[string]map[string]struct{}
	ruleList map[string][]string
	warnings []Warning
}

// New builds a Catalog. Slot and person ids must be unique; anything else
// that looks off is recorded as a Warning rather than rejected.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		headings: append([]string(nil), def.Headings...),
		slots:    make([]Slot, 0, len(def.Slots)),
		slotIdx:  make(map[string]int, len(def.Slots)),
		people:   make([]Person, 0, len(def.People)),
		personIx: make(map[string]int, len(def.People)),
		rules:    make(map[string]map[string]struct{}, len(def.Rules)),
		ruleList: make(map[string][]string, len(def.Rules)),
	}

	for _, s := range def.Slots {
		if s.ID == "" {
			return nil, fmt.Errorf("slot %q: %w", s.Label, ErrEmptyID)
		}
		if _, dup := c.slotIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, s.ID)
		}

		norm := duration.Normalize(s.Hours)
		s.Minutes = norm.Minutes
		if norm.Suspect {
			c.warn(WarnSuspectDuration, s.ID, fmt.Sprintf("hours %s has a literal-minutes remainder over %d", duration.FormatRaw(s.Hours), duration.MaxLiteralMinutes))
		}
		if !s.Day.Valid() {
			c.warn(WarnUnknownDay, s.ID, fmt.Sprintf("day %q is not one of Sun..Sat", s.Day))
		}

		c.slotIdx[s.ID] = len(c.slots)
		c.slots = append(c.slots, s)
	}

	for _, p := range def.People {
		if p.ID == "" {
			return nil, fmt.Errorf("person %q: %w", p.Name, ErrEmptyID)
		}
		if _, dup := c.personIx[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePerson, p.ID)
		}
		c.personIx[p.ID] = len(c.people)
		c.people = append(c.people, p)
	}

	owners := make([]string, 0, len(def.Rules))
	for owner := range def.Rules {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		if _, ok := c.personIx[owner]; !ok {
			c.warn(WarnUnknownRuleOwner, owner, "restriction list for a person not in the roster")
		}
		set := make(map[string]struct{}, len(def.Rules[owner]))
		list := make([]string, 0, len(def.Rules[owner]))
		for _, slotID := range def.Rules[owner] {
			if _, seen := set[slotID]; seen {
				continue
			}
			set[slotID] = struct{}{}
			list = append(list, slotID)

			if _, ok := c.slotIdx[slotID]; ok {
				continue
			}
			if strings.Contains(slotID, ",") {
				c.warn(WarnCommaJoinedRule, owner, fmt.Sprintf("restriction %q looks like several ids joined with commas", slotID))
			} else {
				c.warn(WarnUnknownRuleSlot, owner, fmt.Sprintf("restriction %q matches no slot", slotID))
			}
		}
		c.rules[owner] = set
		c.ruleList[owner] = list
	}

	return c, nil
}

func (c *Catalog) warn(kind WarningKind, subject, msg string) {
	c.warnings = append(c.warnings, Warning{Kind: kind, Subject: subject, Message: msg})
}

// Slots returns the slots in catalog order.
func (c *Catalog) Slots() []Slot {
	return append([]Slot(nil), c.slots...)
}

// Slot looks up a slot by id.
func (c *Catalog) Slot(id string) (Slot, bool) {
	i, ok := c.slotIdx[id]
	if !ok {
		return Slot{}, false
	}
	return c.slots[i], true
}

// People returns the roster in catalog order.
func (c *Catalog) People() []Person {
	return append([]Person(nil), c.people...)
}

// Person looks up a person by id.
func (c *Catalog) Person(id string) (Person, bool) {
	i, ok := c.personIx[id]
	if !ok {
		return Person{}, false
	}
	return c.people[i], true
}

// Restricted reports whether personID is forbidden from slotID.
func (c *Catalog) Restricted(personID, slotID string) bool {
	_, ok := c.rules[personID][slotID]
	return ok
}

// RestrictedSlots returns the restriction list for personID in declared order.
func (c *Catalog) RestrictedSlots(personID string) []string {
	return append([]string(nil), c.ruleList[personID]...)
}

// Rules returns a copy of every restriction list keyed by person id.
func (c *Catalog) Rules() map[string][]string {
	out := make(map[string][]string, len(c.ruleList))
	for owner, list := range c.ruleList {
		out[owner] = append([]string(nil), list...)
	}
	return out
}

// Headings returns the group headings used by block grouping.
func (c *Catalog) Headings() []string {
	return append([]string(nil), c.headings...)
}

// Warnings returns suspect entries found while building the catalog.
func (c *Catalog) Warnings() []Warning {
	return append([]Warning(nil), c.warnings...)
}

// Definition returns the input the catalog can be rebuilt from.
func (c *Catalog) Definition() Definition {
	return Definition{
		Headings: c.Headings(),
		Slots:    c.Slots(),
		People:   c.People(),
		Rules:    c.Rules(),
	}
}
