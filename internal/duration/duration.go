/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package duration converts catalog shift lengths written in H.MM notation
// into whole minutes.
//
// The notation is positional rather than decimal: a single digit after the
// point is a fraction of an hour (4.5 is 4h30m) while two or more digits are
// literal minutes (4.45 is 4h45m, not 4.45 hours).
package duration

import (
	"math"
	"strconv"
	"strings"
)

// MaxLiteralMinutes is the largest literal-minutes remainder that reads as a
// clock value. Anything above it is reported as suspect.
const MaxLiteralMinutes = 59

// Result is a normalized catalog duration.
type Result struct {
	Minutes int
	// Suspect is set when the remainder was read as literal minutes but
	// exceeds MaxLiteralMinutes (e.g. 6.75). The minutes are still computed.
	Suspect bool
}

// Minutes normalizes a raw catalog number.
func Minutes(raw float64) int {
	return Normalize(raw).Minutes
}

// Normalize normalizes a raw catalog number and flags suspect remainders.
func Normalize(raw float64) Result {
	return NormalizeText(FormatRaw(raw))
}

// ParseMinutes normalizes the textual form of a catalog number.
func ParseMinutes(text string) int {
	return NormalizeText(text).Minutes
}

// NormalizeText splits text at the first '.' and applies the H.MM rules.
// Unparseable portions count as zero.
func NormalizeText(text string) Result {
	text = strings.TrimSpace(text)
	hStr, mStr, _ := strings.Cut(text, ".")
	hours := leadingInt(hStr)

	if mStr == "" {
		return Result{Minutes: hours * 60}
	}

	var minutes int
	suspect := false
	if len(mStr) == 1 {
		if d := leadingInt(mStr); d > 0 {
			frac := float64(d) / 10
			minutes = int(math.Round(frac * 60))
		}
	} else {
		minutes = leadingInt(mStr)
		suspect = minutes > MaxLiteralMinutes
	}

	return Result{Minutes: hours*60 + minutes, Suspect: suspect}
}

// FormatRaw renders raw in its shortest base-10 form without an exponent,
// the representation the H.MM rules are applied to.
func FormatRaw(raw float64) string {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return ""
	}
	return strconv.FormatFloat(raw, 'f', -1, 64)
}

// leadingInt parses an optional sign followed by the leading run of decimal
// digits. It returns 0 when no digits are present.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
