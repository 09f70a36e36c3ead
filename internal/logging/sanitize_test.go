// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.sig", "eyJh....sig"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("dark\nfantasy\t"); got != "dark fantasy " {
		t.Errorf("control characters not replaced: %q", got)
	}

	long := strings.Repeat("ア", 200)
	got := SanitizeText(long)
	if !strings.HasSuffix(got, "...") {
		t.Error("long text not truncated")
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != maxLoggedText {
		t.Errorf("kept %d runes, want %d", n, maxLoggedText)
	}
}
