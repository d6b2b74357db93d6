package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey, so only
// this package can read or write identity values in the context.
type contextKey string

const identityKey contextKey = "identity"

// errNoToken distinguishes "no Authorization header at all" from "a token
// was presented but failed validation". The two get different responses:
// 401 for a missing token, 403 for an invalid one — the contract the
// deployed client already handles.
var errNoToken = errors.New("auth: no bearer token")

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header, validates
// it, and stores the caller's identity in the request context. Note handlers
// take the owner email from that identity, never from the request body.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	        // ... do stuff after the handler ...
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				if errors.Is(err, errNoToken) {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"message":"Unauthorized, token missing"}`))
				} else {
					w.WriteHeader(http.StatusForbidden)
					w.Write([]byte(`{"message":"Invalid token"}`))
				}
				return
			}

			// Store the identity in context so handlers can read it
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller's identity from the
// request context.
//
// Returns (Identity{}, false) if no valid token was presented. On a route
// behind RequireAuth this always returns (identity, true), but handlers
// still check the bool — a handler wired up without the middleware should
// fail closed, not serve notes for an empty email.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Email != ""
}

// extractIdentity reads and validates the bearer token from the
// Authorization header. Shared helper for RequireAuth.
//
// Header format: "Authorization: Bearer eyJhbGciOi..."
// Anything else — missing header, wrong scheme, empty token — counts as
// "no token" rather than "invalid token".
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, errNoToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Identity{}, errNoToken
	}

	return tokens.Validate(token)
}
