package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

// Source resolves the session a request is made under.
type Source interface {
	Session(r *http.Request) session.Session
}

// Snapshotter is satisfied by [*session.Store].
type Snapshotter interface {
	Snapshot() session.Session
}

// StoreSource serves every request under the store's current session.
type StoreSource struct {
	Store Snapshotter
}

// Session returns the store snapshot.
func (s StoreSource) Session(*http.Request) session.Session {
	if s.Store == nil {
		return session.Session{}
	}
	return s.Store.Snapshot()
}

type sessionContextKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session an admitted request was served under.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(session.Session)
	return s, ok
}

// RequireRoles admits requests whose session role is one of roles, or any authenticated
// role when roles is empty.
func RequireRoles(src Source, roles ...role.Role) func(http.Handler) http.Handler {
	return guard(src, role.Of(roles...))
}

// RequirePortal admits the roles allowed into portal p.
func RequirePortal(src Source, p role.Portal) func(http.Handler) http.Handler {
	return guard(src, p.Allowed())
}

func guard(src Source, allowed role.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := resolve(src, r)
			d := DecideProtected(s, allowed)
			if !apply(w, r, d) {
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// PublicOnly redirects authenticated sessions to their dashboard. A session whose
// dashboard is the requested path itself is rendered.
func PublicOnly(src Source) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := resolve(src, r)
			d := DecidePublic(s)
			if d.Outcome == Redirect && d.Location == r.URL.Path {
				d = Decision{Outcome: Render}
			}
			if !apply(w, r, d) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolve(src Source, r *http.Request) session.Session {
	if src == nil {
		return session.Session{}
	}
	return src.Session(r)
}

// apply writes the response for a non-render decision and reports whether the request
// should proceed.
func apply(w http.ResponseWriter, r *http.Request, d Decision) bool {
	switch d.Outcome {
	case Render:
		return true
	case Pending:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "loading"})
		return false
	default:
		http.Redirect(w, r, d.Location, http.StatusSeeOther)
		return false
	}
}
