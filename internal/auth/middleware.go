// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/models"
)

type contextKey string

const claimsKey contextKey = "admin_claims"

// ClaimsFromContext returns the admin claims set by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer"
// admin token with 401.
func (m *JWTManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, r, "missing bearer token")
			return
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("token", logging.SanitizeToken(token)).
				Msg("Rejected admin token")
			msg := "invalid or expired token"
			if errors.Is(err, ErrNotAuthorized) {
				msg = "token does not grant admin access"
			}
			writeUnauthorized(w, r, msg)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="animerank-admin"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: models.StatusError,
		Error:  &models.APIError{Code: "UNAUTHORIZED", Message: message},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode auth error")
	}
}
