package session

import "github.com/MrEthical07/campusdesk/role"

// Session is the client-side view of the signed-in user.
type Session struct {
	UserID      string
	Role        role.Role
	DisplayName string
	Email       string
	CollegeName string
	Token       string
	// ExpiresAt is the token expiry in unix seconds, 0 when unknown.
	ExpiresAt int64

	Loading bool
	Error   string
	Success bool
}

// Authenticated reports whether the session holds both a token and a role.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != ""
}

// Phase names the state-machine position of a session.
type Phase uint8

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Phase derives the state-machine position from the session fields.
func (s Session) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseAuthenticating
	case s.Error != "":
		return PhaseError
	case s.Authenticated():
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// Identity is the payload of a fulfilled login, registration or reset.
type Identity struct {
	UserID      string
	Role        role.Role
	DisplayName string
	Email       string
	CollegeName string
	Token       string
	ExpiresAt   int64
}

// Identity returns the persisted part of s.
func (s Session) Identity() Identity {
	return Identity{
		UserID:      s.UserID,
		Role:        s.Role,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		CollegeName: s.CollegeName,
		Token:       s.Token,
		ExpiresAt:   s.ExpiresAt,
	}
}

func (s Session) withIdentity(id Identity) Session {
	s.UserID = id.UserID
	s.Role = id.Role
	s.DisplayName = id.DisplayName
	s.Email = id.Email
	s.CollegeName = id.CollegeName
	s.Token = id.Token
	s.ExpiresAt = id.ExpiresAt
	return s
}
