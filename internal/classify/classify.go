/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package classify turns roster state into the color classes shown on the
// board. Everything here is pure.
package classify

// Thresholds around a driver's weekly maximum, in minutes.
const (
	UnderThreshold = 600 // below max-600 a driver is short of hours
	NearThreshold  = 300 // within 300 of max a driver is close
	OverThreshold  = 300 // more than max+300 is over the limit
)

// Color is a driver's hours status.
type Color string

const (
	RedAlert Color = "red_alert"
	Red      Color = "red"
	Yellow   Color = "yellow"
	Green    Color = "green"
)

// CSSClass is the board stylesheet class for the color.
func (c Color) CSSClass() string {
	switch c {
	case RedAlert:
		return "red-person alert"
	case Red:
		return "red-person"
	case Yellow:
		return "yellow-person"
	default:
		return "green-person"
	}
}

// PersonColor classifies current against maxMinutes, both in minutes.
func PersonColor(current, maxMinutes int) Color {
	switch {
	case current > maxMinutes+OverThreshold:
		return RedAlert
	case current < maxMinutes-UnderThreshold:
		return Red
	case current < maxMinutes-NearThreshold:
		return Yellow
	default:
		return Green
	}
}

// Highlight is how a slot is drawn while a driver is selected.
type Highlight string

const (
	Neutral    Highlight = "neutral"
	Occupied   Highlight = "occupied"
	Restricted Highlight = "restricted"
	Available  Highlight = "available"
)

// CSSClass is the board stylesheet class for the highlight.
func (h Highlight) CSSClass() string {
	switch h {
	case Occupied:
		return "slot yellow"
	case Restricted:
		return "slot red"
	case Available:
		return "slot green"
	default:
		return "slot"
	}
}

// Restrictions answers whether a driver is barred from a slot.
type Restrictions interface {
	Restricted(personID, slotID string) bool
}

// SlotHighlight classifies slotID for the active driver. An occupied slot is
// reported as Occupied even when the active driver is also restricted from it.
func SlotHighlight(slotID, activePersonID string, assignments map[string]string, rules Restrictions) Highlight {
	if activePersonID == "" {
		return Neutral
	}
	if _, taken := assignments[slotID]; taken {
		return Occupied
	}
	if rules != nil && rules.Restricted(activePersonID, slotID) {
		return Restricted
	}
	return Available
}
