/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"fmt"
	"strconv"

	"github.com/friendsincode/rosterboard/internal/catalog"
)

// BlockSize is the number of slots in one block: a route's week.
const BlockSize = 7

// SlotGroup is a titled run of slots on the board, in catalog order.
type SlotGroup struct {
	Title   string
	SlotIDs []string
}

// Grouper lays out catalog slots into display groups. Grouping only affects
// presentation; it never changes roster state.
type Grouper interface {
	Name() string
	Group(slots []catalog.Slot, headings []string) []SlotGroup
}

// NewGrouper returns the grouping strategy called name.
func NewGrouper(name string) (Grouper, error) {
	switch name {
	case "block", "":
		return BlockGrouper{Size: BlockSize}, nil
	case "label":
		return LabelGrouper{}, nil
	case "route":
		return RouteGrouper{}, nil
	default:
		return nil, fmt.Errorf("unknown grouping %q", name)
	}
}

// BlockGrouper cuts the slot list into consecutive blocks of Size. Block i is
// titled headings[i] when present, otherwise "Block i+1".
type BlockGrouper struct {
	Size int
}

func (g BlockGrouper) Name() string { return "block" }

func (g BlockGrouper) Group(slots []catalog.Slot, headings []string) []SlotGroup {
	size := g.Size
	if size <= 0 {
		size = BlockSize
	}

	groups := make([]SlotGroup, 0, (len(slots)+size-1)/size)
	for start := 0; start < len(slots); start += size {
		end := start + size
		if end > len(slots) {
			end = len(slots)
		}
		i := len(groups)
		title := "Block " + strconv.Itoa(i+1)
		if i < len(headings) && headings[i] != "" {
			title = headings[i]
		}
		groups = append(groups, SlotGroup{Title: title, SlotIDs: slotIDs(slots[start:end])})
	}
	return groups
}

// LabelGrouper groups slots sharing a run label ("1st Run", "Overnight Run").
type LabelGrouper struct{}

func (LabelGrouper) Name() string { return "label" }

func (LabelGrouper) Group(slots []catalog.Slot, _ []string) []SlotGroup {
	return groupBy(slots, func(s catalog.Slot) string { return s.Label })
}

// RouteGrouper groups slots by route and run label ("Bermuda 1st Run"). Slots
// without a route fall back to their label.
type RouteGrouper struct{}

func (RouteGrouper) Name() string { return "route" }

func (RouteGrouper) Group(slots []catalog.Slot, _ []string) []SlotGroup {
	return groupBy(slots, func(s catalog.Slot) string {
		if s.Route == "" {
			return s.Label
		}
		if s.Label == "" {
			return s.Route
		}
		return s.Route + " " + s.Label
	})
}

// groupBy keeps groups in order of first appearance.
func groupBy(slots []catalog.Slot, key func(catalog.Slot) string) []SlotGroup {
	var groups []SlotGroup
	index := make(map[string]int)
	for _, s := range slots {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, SlotGroup{Title: k})
		}
		groups[i].SlotIDs = append(groups[i].SlotIDs, s.ID)
	}
	return groups
}

func slotIDs(slots []catalog.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}
