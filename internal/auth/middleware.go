package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext returns the request identity, or an unauthenticated
// viewer when the Identify middleware did not run.
func IdentityFromContext(ctx context.Context) Identity {
	if ident, ok := ctx.Value(identityKey).(Identity); ok {
		return ident
	}
	return Identity{Role: RoleViewer}
}

// Middleware carries the guard chain. Identify must run before any of the
// Require* guards; the guards themselves only read the context.
type Middleware struct {
	verifier *Verifier
}

func NewMiddleware(v *Verifier) *Middleware {
	return &Middleware{verifier: v}
}

func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := m.verifier.Identify(r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireAuth rejects unauthenticated requests. With a non-empty redirectTo
// it redirects browser-style; otherwise it answers 401 JSON.
func (m *Middleware) RequireAuth(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFromContext(r.Context()).Authenticated {
				if redirectTo != "" {
					http.Redirect(w, r, redirectTo, http.StatusFound)
					return
				}
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(role Role) func(http.Handler) http.Handler {
	return guard(func(ident Identity) string {
		if ident.Role != role {
			return fmt.Sprintf("role %q required", role)
		}
		return ""
	})
}

func RequireAnyRole(roles ...Role) func(http.Handler) http.Handler {
	return guard(func(ident Identity) string {
		if !ident.Role.AnyOf(roles...) {
			return "none of the required roles held"
		}
		return ""
	})
}

func RequireRoleLevel(min Role) func(http.Handler) http.Handler {
	return guard(func(ident Identity) string {
		if !ident.Role.Meets(min) {
			return fmt.Sprintf("role level %q or above required", min)
		}
		return ""
	})
}

func RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return guard(func(ident Identity) string {
		if !ident.Role.Has(perm) {
			return fmt.Sprintf("permission %q required", perm)
		}
		return ""
	})
}

// guard turns a check into middleware that answers 403 JSON on failure, the
// same translation a caller of the predicate forms would otherwise write.
func guard(check func(Identity) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if msg := check(IdentityFromContext(r.Context())); msg != "" {
				writeError(w, http.StatusForbidden, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
