package session

import "github.com/MrEthical07/campusdesk/role"

// Op is the authentication operation an action belongs to.
type Op uint8

const (
	OpLogin Op = iota
	OpRegister
	OpReset
)

func (o Op) String() string {
	switch o {
	case OpLogin:
		return "login"
	case OpRegister:
		return "register"
	case OpReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Kind is the transition an action requests.
type Kind uint8

const (
	KindPending Kind = iota
	KindFulfilled
	KindRejected
	KindLogout
	KindClear
	KindRestore
)

func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindFulfilled:
		return "fulfilled"
	case KindRejected:
		return "rejected"
	case KindLogout:
		return "logout"
	case KindClear:
		return "clear"
	case KindRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Action is one serialized state transition.
type Action struct {
	Kind     Kind
	Op       Op
	Identity Identity
	Message  string
}

// ErrIncompleteIdentityMessage is the error a fulfilled action without both token and
// role is turned into.
const ErrIncompleteIdentityMessage = "login response did not include a token and role"

// Pending starts op.
func Pending(op Op) Action { return Action{Kind: KindPending, Op: op} }

// Fulfilled completes op with id.
func Fulfilled(op Op, id Identity) Action { return Action{Kind: KindFulfilled, Op: op, Identity: id} }

// Rejected fails op with a user-visible message.
func Rejected(op Op, message string) Action {
	return Action{Kind: KindRejected, Op: op, Message: message}
}

// Logout clears the session.
func Logout() Action { return Action{Kind: KindLogout} }

// Clear dismisses the loading, error and success flags and keeps the identity.
func Clear() Action { return Action{Kind: KindClear} }

// Restore replaces the identity with one loaded from storage.
func Restore(id Identity) Action { return Action{Kind: KindRestore, Identity: id} }

// Reduce applies a to s. It is pure; [Store.Dispatch] serializes calls.
func Reduce(s Session, a Action) Session {
	switch a.Kind {
	case KindPending:
		s.Loading = true
		s.Error = ""
		s.Success = false
	case KindFulfilled:
		id := a.Identity
		id.Role = role.Role(role.Normalize(string(id.Role)))
		if id.Token == "" || id.Role == "" {
			s.Loading = false
			s.Success = false
			s.Error = ErrIncompleteIdentityMessage
			return s
		}
		s = s.withIdentity(id)
		s.Loading = false
		s.Error = ""
		s.Success = true
	case KindRejected:
		s.Loading = false
		s.Success = false
		s.Error = a.Message
		if s.Error == "" {
			s.Error = genericFailure(a.Op)
		}
	case KindLogout:
		return Session{}
	case KindClear:
		s.Loading = false
		s.Error = ""
		s.Success = false
	case KindRestore:
		id := a.Identity
		id.Role = role.Role(role.Normalize(string(id.Role)))
		if id.Token == "" || id.Role == "" {
			return Session{}
		}
		s = Session{}.withIdentity(id)
	}
	return s
}

func genericFailure(op Op) string {
	switch op {
	case OpRegister:
		return "Registration failed"
	case OpReset:
		return "Password reset failed"
	default:
		return "Login failed"
	}
}
