// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned %q", got)
	}

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Errorf("request id %q is not a UUID", id)
	}

	ctx = ContextWithRequestID(ctx, id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("RequestIDFromContext = %q, want %q", got, id)
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-123")

	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request_id missing: %s", buf.String())
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	if Ctx(context.Background()) == nil {
		t.Fatal("Ctx returned nil")
	}
}
