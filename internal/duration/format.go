/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package duration

import "fmt"

// Format renders minutes the way the board shows a driver's total:
// "6 hrs" or "6 hrs 15 min".
func Format(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%s%d hrs", sign, h)
	}
	return fmt.Sprintf("%s%d hrs %d min", sign, h, m)
}
