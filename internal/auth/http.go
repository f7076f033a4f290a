// ABOUTME: HTTP middleware for JWT authentication and role-scoped authorization
// ABOUTME: Extracts bearer tokens, resolves identities, and enforces role policies

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/convene-hq/convene/internal/store"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// resolveIdentity turns a raw bearer token into an Identity. Returns nil for
// any failure: invalid signature, expiry, missing subject, or a verified
// subject with no matching user. Callers must not distinguish the cases.
func resolveIdentity(r *http.Request, users UserStore, verifier TokenVerifier, token string) *Identity {
	username, err := verifier.Verify(token)
	if err != nil {
		return nil
	}

	user, err := users.GetUserByUsername(r.Context(), username)
	if err != nil {
		return nil
	}

	return identityFromUser(user)
}

// RequireAuth creates an HTTP middleware that extracts and validates bearer
// tokens, loading the caller's identity into the request context. Every
// failure mode yields the same 401 so token problems and unknown users are
// indistinguishable to the caller.
func RequireAuth(users UserStore, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				unauthenticated(w)
				return
			}

			identity := resolveIdentity(r, users, verifier, token)
			if identity == nil {
				unauthenticated(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth creates an HTTP middleware that attempts bearer auth but
// allows unauthenticated requests through. A missing header, malformed
// prefix, bad token, or unknown user all continue anonymously.
func OptionalAuth(users UserStore, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				next.ServeHTTP(w, r) // Continue as anonymous
				return
			}

			identity := resolveIdentity(r, users, verifier, token)
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRoles creates an HTTP middleware that enforces a role allow-set.
// Must be used after RequireAuth. Membership is checked against the whole
// set at once; an identity passes when its role is any of the allowed ones.
func RequireRoles(allowed ...store.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := FromContext(r.Context())
			if identity == nil {
				unauthenticated(w)
				return
			}

			if !identity.HasRole(allowed...) {
				writeError(w, http.StatusForbidden, "insufficient privileges")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "could not validate credentials")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
