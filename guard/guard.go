// Package guard gates protected views by role. An unauthenticated visitor
// is sent to the login route; an authenticated one whose role is outside
// the allow-list is sent to their own role's landing route, never to the
// view they asked for.
package guard

import (
	"context"
	"net/http"

	"github.com/spindo/spindo-client-go/roles"
	"github.com/spindo/spindo-client-go/store"
)

// LoginRoute is where unauthenticated visitors are redirected.
const LoginRoute = "/login"

// SessionState is the slice of the session the guard reads.
// *session.Session satisfies it.
type SessionState interface {
	Initializing() bool
	IsAuthenticated() bool
	CurrentUser() (store.Identity, bool)
}

type identityContextKey struct{}

// IdentityFromContext returns the identity the guard injected for the
// current request.
func IdentityFromContext(ctx context.Context) (store.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(store.Identity)
	return id, ok
}

// Requires wraps a handler with role gating. An empty allow-list admits
// any authenticated role.
func Requires(state SessionState, allowed ...roles.Role) func(http.Handler) http.Handler {
	allowSet := make(map[roles.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// No redirect decision is made while hydration is running:
			// a neutral "loading" reply tells the caller to come back.
			if state.Initializing() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session initializing", http.StatusServiceUnavailable)
				return
			}

			if !state.IsAuthenticated() {
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
				return
			}
			user, ok := state.CurrentUser()
			if !ok {
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
				return
			}

			if len(allowSet) > 0 {
				if _, permitted := allowSet[user.Role]; !permitted {
					// Wrong role: send the user to their own landing
					// view, not the one they requested.
					http.Redirect(w, r, user.Role.DefaultRoute(), http.StatusSeeOther)
					return
				}
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
