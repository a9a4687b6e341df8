// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coloratura-app/coloratura/internal/logging"
)

// devUserHeader carries the caller's user id when security.auth_mode
// is "header". Development and tests only; the token mode ignores it.
const devUserHeader = "X-User-ID"

// Identity is the resolved caller. Handlers read it from the request
// context; it is never taken from query parameters or request bodies.
type Identity struct {
	UserID string
}

type identityCtxKey struct{}

// ContextWithIdentity attaches a resolved identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the resolved identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// Identity resolves the caller once for the whole /api/v1 subtree.
//
// In "token" mode an Authorization: Bearer header is verified as an
// HS256 JWT and the subject claim becomes the user id; a presented
// but invalid token is rejected rather than downgraded to anonymous.
// In "header" mode the X-User-ID header is trusted as-is. Requests
// with no credentials pass through anonymous; endpoints that need an
// identity enforce it with requireIdentity.
func (m *Middleware) Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string
			switch m.config.AuthMode {
			case "header":
				userID = strings.TrimSpace(r.Header.Get(devUserHeader))
			default:
				raw := r.Header.Get("Authorization")
				if raw == "" {
					next.ServeHTTP(w, r)
					return
				}
				bearer, ok := strings.CutPrefix(raw, "Bearer ")
				if !ok {
					respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Authorization header must use the Bearer scheme")
					return
				}
				subject, err := m.verifyToken(strings.TrimSpace(bearer))
				if err != nil {
					logging.Debug().Err(err).Msg("bearer token rejected")
					respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token")
					return
				}
				userID = subject
			}

			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ContextWithIdentity(r.Context(), Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyToken parses and verifies an HS256 bearer token, returning
// the subject claim.
func (m *Middleware) verifyToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.TokenSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// requireIdentity returns the caller's identity or writes a 401 and
// reports false.
func requireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
		return Identity{}, false
	}
	return id, true
}
