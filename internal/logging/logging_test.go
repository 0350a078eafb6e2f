/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("production", &buf)

	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}

	logger.Debug().Msg("hidden")
	logger.Info().Str("slot_id", "ank-sun-1").Msg("assigned")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"slot_id":"ank-sun-1"`) {
		t.Fatalf("expected JSON field in output, got %s", out)
	}
}

func TestSetupDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("development", &buf)

	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", logger.GetLevel())
	}
	logger.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
