// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerank/internal/logging"
)

// AccessLog writes one structured line per request. Server errors log at
// error level, client errors at warn, everything else at debug.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		logger := logging.Ctx(r.Context())
		event := logger.Debug()
		switch status := rec.Status(); {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		event.
			Str("method", r.Method).
			Str("route", routePattern(r)).
			Int("status", rec.Status()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	})
}
