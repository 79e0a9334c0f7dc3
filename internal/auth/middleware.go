package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// userID value — no other package can collide with or shadow it.
type contextKey string

const userIDKey contextKey = "userID"

// SessionCookie is the name of the HttpOnly cookie set by the browser
// OAuth flow. API clients use the Authorization header instead.
const SessionCookie = "token"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It accepts the session token from either of two places, in order:
//
//  1. "Authorization: Bearer <jwt>" — the SPA and API clients
//  2. the "token" HttpOnly cookie — set by the Google redirect flow
//
// On success the userID lands in the request context for the handlers; on a
// missing or invalid token the chain stops with a 401 before any handler
// runs. Resume and profile handlers can therefore assume a valid user.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID pulls the JWT out of the request and validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return "", errors.New("auth: malformed Authorization header")
		}
		return tokens.Validate(strings.TrimSpace(raw))
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no credentials at all
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
