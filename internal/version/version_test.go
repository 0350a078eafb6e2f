/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version = "1.2.3"
	Commit = ""
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}

	Commit = "0123456789abcdef"
	if got := String(); got != "1.2.3 (0123456)" {
		t.Fatalf("String() = %q", got)
	}
}
