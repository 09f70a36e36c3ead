// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestSlog(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&SlogHandler{logger: zerolog.New(buf)})
}

func TestSlogHandlerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestSlog(&buf)

	logger.Info("service restarted",
		"service", "catalog-refresh",
		"attempt", 3,
		"backoff", 2*time.Second,
		"ok", true,
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"service restarted"`,
		`"service":"catalog-refresh"`,
		`"attempt":3`,
		`"ok":true`,
		`"level":"info"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		newTestSlog(&buf).Log(context.Background(), tt.level, "msg")
		if !strings.Contains(buf.String(), `"level":"`+tt.want+`"`) {
			t.Errorf("level %v produced %s", tt.level, buf.String())
		}
	}
}

func TestSlogHandlerGroupsAndWith(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestSlog(&buf).With("tree", "animerank").WithGroup("supervisor")

	logger.Warn("backoff", "failures", 5, slog.Group("svc", "name", "http"))

	out := buf.String()
	for _, want := range []string{`"tree":"animerank"`, `"supervisor.failures":5`, `"supervisor.svc.name":"http"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestSlogHandlerError(t *testing.T) {
	var buf bytes.Buffer
	newTestSlog(&buf).Error("service failed", "error", errors.New("bind: address in use"))

	if !strings.Contains(buf.String(), `"error":"bind: address in use"`) {
		t.Errorf("error attr not rendered: %s", buf.String())
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	h := &SlogHandler{logger: zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel)}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled on warn-level logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled on warn-level logger")
	}
}
