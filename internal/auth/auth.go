// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package auth resolves the requesting user from a bearer token. Token
// issuance and refresh belong to the identity service; this package only
// verifies signatures and extracts the subject.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/avandyck/retrospin/internal/config"
	"github.com/avandyck/retrospin/internal/logging"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware verifies bearer tokens and stores the resolved user ID on the
// request context.
type Middleware struct {
	secret    []byte
	devUserID string
}

// NewMiddleware creates the user-resolution middleware from configuration.
func NewMiddleware(cfg *config.AuthConfig) *Middleware {
	return &Middleware{
		secret:    []byte(cfg.JWTSecret),
		devUserID: cfg.DevUserID,
	}
}

// Handler rejects requests without a valid identity with 401. With a dev
// user configured, every request resolves to that user and tokens are
// ignored.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.devUserID != "" {
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), m.devUserID)))
			return
		}

		userID, err := m.resolve(r)
		if err != nil {
			logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// resolve extracts and verifies the bearer token, returning its subject.
func (m *Middleware) resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// CurrentUserID returns the user resolved by the middleware, or "" when the
// request never passed through it.
func CurrentUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
