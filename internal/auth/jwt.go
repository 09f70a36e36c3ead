// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the API recognizes.
const RoleAdmin = "admin"

// DefaultTokenTTL is the lifetime of tokens minted by GenerateToken.
const DefaultTokenTTL = 24 * time.Hour

// minSecretLength matches the configuration validation rule.
const minSecretLength = 32

// Issuer is set on minted tokens and required on validated ones.
const Issuer = "animerank"

// Errors returned by ValidateToken.
var (
	ErrEmptySecret   = errors.New("admin JWT secret is empty")
	ErrShortSecret   = fmt.Errorf("admin JWT secret must be at least %d characters", minSecretLength)
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotAuthorized = errors.New("token does not grant admin access")
)

// Claims are the admin token claims.
type Claims struct {
	Subject string `json:"sub_name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager mints and validates HS256 admin tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a manager for secret. A non-positive ttl means
// DefaultTokenTTL.
//
// Example:
//
//	jwtManager, err := auth.NewJWTManager(cfg.Security.AdminJWTSecret, 0)
//	if err != nil {
//	    return err
//	}
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(secret) < minSecretLength {
		return nil, ErrShortSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken signs an admin token for subject (an operator name, used
// only for audit logging).
func (m *JWTManager) GenerateToken(subject string) (string, error) {
	now := m.now()
	claims := &Claims{
		Subject: subject,
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm, issuer and time claims, and
// that the token carries the admin role.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin {
		return nil, ErrNotAuthorized
	}
	return claims, nil
}
