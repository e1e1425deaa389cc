package middleware

import (
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

const (
	// SelectPortalPath is where unauthenticated visitors are sent.
	SelectPortalPath = "/select-portal"
	// UnauthorizedPath is where a session with the wrong role is sent.
	UnauthorizedPath = "/unauthorized"
)

// Outcome is what a guard decided.
type Outcome uint8

const (
	// Render admits the request.
	Render Outcome = iota
	// Pending defers the decision while the session is loading.
	Pending
	// Redirect sends the request to Decision.Location.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard.
type Decision struct {
	Outcome  Outcome
	Location string
}

func redirect(to string) Decision {
	return Decision{Outcome: Redirect, Location: to}
}

// DecideProtected admits s when it holds a token and a role in allowed. An empty allowed
// set admits any authenticated role. A loading session defers the decision.
func DecideProtected(s session.Session, allowed role.Set) Decision {
	if s.Loading {
		return Decision{Outcome: Pending}
	}
	if s.Token == "" || s.Role == "" {
		return redirect(SelectPortalPath)
	}
	if !allowed.Empty() && !allowed.Contains(string(s.Role)) {
		return redirect(UnauthorizedPath)
	}
	return Decision{Outcome: Render}
}

// DecidePublic redirects an authenticated s to its role's dashboard and renders
// otherwise.
func DecidePublic(s session.Session) Decision {
	if s.Token != "" && s.Role != "" {
		r := role.Role(role.Normalize(string(s.Role)))
		return redirect(role.Dashboard(r))
	}
	return Decision{Outcome: Render}
}
