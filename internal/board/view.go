/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"time"

	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/classify"
	"github.com/friendsincode/rosterboard/internal/duration"
	"github.com/friendsincode/rosterboard/internal/roster"
)

// View is everything a client needs to draw the board.
type View struct {
	SessionID      string                `json:"session_id"`
	ActivePersonID string                `json:"active_person_id,omitempty"`
	Outcome        roster.Outcome        `json:"outcome,omitempty"`
	People         []PersonView          `json:"people"`
	Assignments    map[string]Assignment `json:"assignments"`
	Groups         []GroupView           `json:"groups"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// PersonView is one driver in the sidebar.
type PersonView struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	MaxHours           int            `json:"max_hours"`
	AccumulatedMinutes int            `json:"accumulated_minutes"`
	Display            string         `json:"display"`
	Color              classify.Color `json:"color"`
	CSSClass           string         `json:"css_class"`
	Active             bool           `json:"active"`
}

// Assignment names the holder of a slot.
type Assignment struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
}

// SlotView is one cell of the grid.
type SlotView struct {
	ID           string             `json:"id"`
	Day          catalog.Day        `json:"day"`
	Label        string             `json:"label"`
	Route        string             `json:"route,omitempty"`
	Minutes      int                `json:"minutes"`
	AssignedTo   string             `json:"assigned_to,omitempty"`
	AssignedName string             `json:"assigned_name,omitempty"`
	Highlight    classify.Highlight `json:"highlight"`
	CSSClass     string             `json:"css_class"`
}

// GroupView is a titled block of slots.
type GroupView struct {
	Title string     `json:"title"`
	Slots []SlotView `json:"slots"`
}

// buildView derives the presentation from a ledger snapshot. It reads only
// immutable catalog data and the snapshot, so it needs no lock of its own.
func buildView(cat *catalog.Catalog, groups []SlotGroup, snap roster.Snapshot, sessionID, active string) View {
	people := cat.People()
	names := make(map[string]string, len(people))

	view := View{
		SessionID:      sessionID,
		ActivePersonID: active,
		People:         make([]PersonView, 0, len(people)),
		Assignments:    make(map[string]Assignment, len(snap.Assignments)),
		Groups:         make([]GroupView, 0, len(groups)),
		UpdatedAt:      time.Now().UTC(),
	}

	for _, p := range people {
		names[p.ID] = p.Name
		minutes := snap.Accumulated[p.ID]
		color := classify.PersonColor(minutes, p.MaxWeeklyMinutes())
		view.People = append(view.People, PersonView{
			ID:                 p.ID,
			Name:               p.Name,
			MaxHours:           p.MaxHours,
			AccumulatedMinutes: minutes,
			Display:            duration.Format(minutes),
			Color:              color,
			CSSClass:           color.CSSClass(),
			Active:             p.ID == active,
		})
	}

	for slotID, personID := range snap.Assignments {
		view.Assignments[slotID] = Assignment{PersonID: personID, Name: names[personID]}
	}

	for _, g := range groups {
		gv := GroupView{Title: g.Title, Slots: make([]SlotView, 0, len(g.SlotIDs))}
		for _, slotID := range g.SlotIDs {
			slot, ok := cat.Slot(slotID)
			if !ok {
				continue
			}
			hl := classify.SlotHighlight(slotID, active, snap.Assignments, cat)
			sv := SlotView{
				ID:        slot.ID,
				Day:       slot.Day,
				Label:     slot.Label,
				Route:     slot.Route,
				Minutes:   slot.Minutes,
				Highlight: hl,
				CSSClass:  hl.CSSClass(),
			}
			if a, ok := view.Assignments[slotID]; ok {
				sv.AssignedTo = a.PersonID
				sv.AssignedName = a.Name
			}
			gv.Slots = append(gv.Slots, sv)
		}
		view.Groups = append(view.Groups, gv)
	}

	return view
}

// Slot finds a slot view by id.
func (v View) Slot(id string) (SlotView, bool) {
	for _, g := range v.Groups {
		for _, s := range g.Slots {
			if s.ID == id {
				return s, true
			}
		}
	}
	return SlotView{}, false
}

// Person finds a person view by id.
func (v View) Person(id string) (PersonView, bool) {
	for _, p := range v.People {
		if p.ID == id {
			return p, true
		}
	}
	return PersonView{}, false
}
