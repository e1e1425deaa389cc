package campus

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/campusdesk/role"
)

// InviteStatus is the stored state of an invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
)

// Invite authorizes one email to self-register under a role and college.
type Invite struct {
	ID          string       `json:"_id,omitempty"`
	Email       string       `json:"email"`
	Role        role.Role    `json:"role"`
	CollegeName string       `json:"collegeName,omitempty"`
	Status      InviteStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// EffectiveStatus derives expiry at read time: a pending invite past its expiry reads as
// expired. Stored state is never changed.
func (i Invite) EffectiveStatus(now time.Time) InviteStatus {
	if i.Status == InvitePending && !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now) {
		return InviteExpired
	}
	return i.Status
}

// InvitableRoles are the roles a super-admin can invite, in tab order.
var InvitableRoles = []role.Role{role.HostelAdmin, role.MessAdmin, role.Student}

// Invitable reports whether r appears in [InvitableRoles].
func Invitable(r role.Role) bool {
	for _, candidate := range InvitableRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// NewInvite is the body of an invite creation.
type NewInvite struct {
	Email       string    `json:"email"`
	Role        role.Role `json:"role"`
	CollegeName string    `json:"collegeName"`
}

// Validate requires an email and an invitable role.
func (n NewInvite) Validate() error {
	if strings.TrimSpace(n.Email) == "" {
		return ErrInviteEmailRequired
	}
	if !Invitable(role.Role(role.Normalize(string(n.Role)))) {
		return fmt.Errorf("%w: %q", ErrInviteRole, n.Role)
	}
	return nil
}

// InviteList is the invite listing response.
type InviteList struct {
	Success bool     `json:"success"`
	Invites []Invite `json:"invites"`
}

// InviteVerification is the response of an invite token check.
type InviteVerification struct {
	Valid       bool      `json:"valid"`
	Email       string    `json:"email,omitempty"`
	Role        role.Role `json:"role,omitempty"`
	CollegeName string    `json:"collegeName,omitempty"`
	Message     string    `json:"message,omitempty"`
}
