// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package logging

import (
	"strings"
	"unicode"
)

// maxLoggedText bounds free text copied into log lines.
const maxLoggedText = 120

// SanitizeToken masks a credential, showing only first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiJ9..." -> "eyJh...NiJ9"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeText prepares user-supplied free text (search terms, preference
// queries) for a log field: control characters become spaces and the result
// is truncated.
func SanitizeText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)

	runes := []rune(cleaned)
	if len(runes) <= maxLoggedText {
		return cleaned
	}
	return string(runes[:maxLoggedText]) + "..."
}
