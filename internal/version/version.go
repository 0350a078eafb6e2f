/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version carries build identification.
package version

import "fmt"

// Version is set at build time via ldflags:
//
//	-X github.com/friendsincode/rosterboard/internal/version.Version=X.Y.Z
var Version = "0.1.0-dev"

// Commit is the git revision, set at build time.
var Commit = ""

// String formats the version for --version output and logs.
func String() string {
	if Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, short)
}
