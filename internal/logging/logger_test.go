// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func captureGlobal(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	Init(cfg)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestInitJSONFormat(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info", Format: "json", Timestamp: true})

	Info().Str("component", "test").Msg("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["message"] != "hello" {
		t.Errorf("message = %v", line["message"])
	}
	if line["level"] != "info" {
		t.Errorf("level = %v", line["level"])
	}
	if _, ok := line["time"]; !ok {
		t.Error("expected time field")
	}
}

func TestInitLevelFilters(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "warn", Format: "json"})

	Info().Msg("dropped")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info line emitted at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn line missing")
	}
}

func TestInitConsoleFormat(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "debug", Format: "console"})

	Debug().Msg("console line")

	if !strings.Contains(buf.String(), "console line") {
		t.Errorf("console output missing message: %q", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Error("console format produced JSON")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info", Format: "json"})

	logger := WithComponent("recommend")
	logger.Info().Msg("scored")

	if !strings.Contains(buf.String(), `"component":"recommend"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}

func TestErr(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info", Format: "json"})

	Err(errTest("refresh failed")).Msg("catalog")

	if !strings.Contains(buf.String(), `"error":"refresh failed"`) {
		t.Errorf("error field missing: %s", buf.String())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
