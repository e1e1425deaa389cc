package role

import "strings"

// Role is a normalized campus role.
type Role string

const (
	Student     Role = "student"
	HostelAdmin Role = "hostel_admin"
	MessAdmin   Role = "mess_admin"
	SuperAdmin  Role = "super_admin"
	// Admin is the legacy spelling of SuperAdmin still issued by some backends.
	Admin Role = "admin"
	// Warden is the legacy spelling of HostelAdmin.
	Warden Role = "warden"
)

// All lists every known role in a stable order.
var All = []Role{Student, HostelAdmin, MessAdmin, SuperAdmin, Admin, Warden}

// Normalize lowercases s, trims it and replaces hyphens with underscores.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// Parse normalizes s and reports whether it names a known role.
func Parse(s string) (Role, bool) {
	r := Role(Normalize(s))
	switch r {
	case Student, HostelAdmin, MessAdmin, SuperAdmin, Admin, Warden:
		return r, true
	default:
		return r, false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := Parse(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Slug returns the hyphenated spelling used in URLs and register endpoints.
func (r Role) Slug() string {
	return strings.ReplaceAll(string(r), "_", "-")
}

// Label returns the human readable role name ("HOSTEL ADMIN").
func (r Role) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(r), "_", " "))
}

// Registrable reports whether accounts for r can be created through self-registration.
// Legacy roles are only ever issued by the backend.
func (r Role) Registrable() bool {
	switch r {
	case Student, HostelAdmin, MessAdmin, SuperAdmin:
		return true
	default:
		return false
	}
}

// Dashboard returns the default landing route for r. Unknown roles land on "/".
func Dashboard(r Role) string {
	switch r {
	case SuperAdmin, Admin:
		return "/super-admin/dashboard"
	case Student:
		return "/student/dashboard"
	case HostelAdmin, Warden:
		return "/hostel-admin/dashboard"
	case MessAdmin:
		return "/mess-admin/dashboard"
	default:
		return "/"
	}
}

// Set is an allowed-role set with normalized membership.
type Set struct {
	roles map[Role]struct{}
}

// NewSet builds a Set from role names in any spelling. Unknown names are kept so that a
// misspelled guard never admits anyone by accident.
func NewSet(names ...string) Set {
	s := Set{roles: make(map[Role]struct{}, len(names))}
	for _, name := range names {
		s.roles[Role(Normalize(name))] = struct{}{}
	}
	return s
}

// Of builds a Set from roles.
func Of(roles ...Role) Set {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return NewSet(names...)
}

// Empty reports whether the set has no members. Guards treat an empty set as "any
// authenticated role".
func (s Set) Empty() bool {
	return len(s.roles) == 0
}

// Contains reports whether the normalized form of name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s.roles[Role(Normalize(name))]
	return ok
}

// Roles returns the members in the order of [All], followed by unknown names.
func (s Set) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	seen := make(map[Role]struct{}, len(s.roles))
	for _, r := range All {
		if _, ok := s.roles[r]; ok {
			out = append(out, r)
			seen[r] = struct{}{}
		}
	}
	for r := range s.roles {
		if _, ok := seen[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}
