// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"lagazette/internal/models"
	"lagazette/internal/session"
	"lagazette/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// UserKey is the context key for the authenticated user row.
	UserKey contextKey = "user"
)

// LoadSession retrieves the session from Valkey, resolves the user row it
// points to, and stores both in the request context. This middleware does
// NOT enforce authentication — it just loads what exists. Roles are read
// from the user row on every request, so a role change takes effect
// without waiting for the session to expire.
func LoadSession(sessions *session.Store, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				// Log but don't block — treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				if data.Authenticated() {
					user, err := users.FindByID(data.UserID)
					if err == nil && user != nil {
						ctx = context.WithValue(ctx, UserKey, user)
					}
				}
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects unauthenticated visitors to the login page.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			http.Redirect(w, r, "/connexion", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA redirects admins who haven't completed the TOTP challenge for
// this session. Admins without a configured secret go to the setup page
// first. Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		sess := SessionFromCtx(r.Context())

		if user != nil && user.IsAdmin() && (sess == nil || !sess.TwoFADone) {
			if user.Needs2FASetup() {
				http.Redirect(w, r, "/admin/2fa/configuration", http.StatusSeeOther)
			} else {
				http.Redirect(w, r, "/admin/2fa/verification", http.StatusSeeOther)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin sends non-admin visitors back to the homepage with a
// warning notice. Must be applied after RequireAuth.
func RequireAdmin(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil || !user.IsAdmin() {
				sessions.AddFlash(r.Context(), w, r, session.FlashWarning,
					"Accès refusé : cette page est réservée aux administrateurs.")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil for anonymous visitors.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}
