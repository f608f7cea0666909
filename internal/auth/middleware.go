package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoPrincipal is returned when a handler behind RequireAuth finds no user
// in the context — which should be impossible and indicates a mis-wired
// route.
var ErrNoPrincipal = errors.New("auth: no principal in context")

// SessionCookie is the name of the HttpOnly cookie carrying the session
// token. Shared with the handlers that set and clear it.
const SessionCookie = "session"

// contextKey is an unexported type for context keys in this package. A
// package-private key type means no other package can read or shadow the
// principal we store in the context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the session cookie, validates the token, and stores the user ID
// in the request context. When the token is missing or invalid the browser
// is sent to /login — this is an HTML app, so the 401 of an API becomes a
// redirect to the place where the user can fix the problem.
//
// Chi applies middlewares in a chain: req → RequireAuth → handler. Handlers
// behind it may assume UserIDFromContext returns a real principal.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the principal if a valid session cookie is present
// but never blocks the request. Used on "/" so the landing page can decide
// between the marketing view and a redirect to the dashboard.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false) for
// an anonymous request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SetSessionCookie writes the signed session token as an HttpOnly cookie.
//
// HttpOnly keeps the token away from JavaScript (XSS can't steal it);
// SameSite=Lax keeps it off cross-site POSTs. Secure is left off for local
// development — set it when deploying behind HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the session cookie. Idempotent — clearing an
// absent cookie is a no-op, so logout can't fail.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// extractUserID reads and validates the session cookie. Shared by
// RequireAuth and OptionalAuth.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just an anonymous request.
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
