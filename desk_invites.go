package campusdesk

import (
	"context"
	"fmt"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
)

var inviteAdmins = role.Of(role.SuperAdmin, role.Admin)

// Invites lists the invitations sent for r. Expiry is derived at read time with
// [campus.Invite.EffectiveStatus]; nothing is rewritten.
func (d *Desk) Invites(ctx context.Context, r role.Role) ([]campus.Invite, error) {
	if _, err := d.requireRole(inviteAdmins); err != nil {
		return nil, err
	}
	r = role.Role(role.Normalize(string(r)))
	if !campus.Invitable(r) {
		return nil, d.reject(ctx, "invites", fmt.Errorf("%w: %q", campus.ErrInviteRole, r))
	}
	invites, err := d.client.Invites(ctx, r)
	if err != nil {
		return nil, d.fail(ctx, "invites", err, api.LoadInvitesFailedMessage)
	}
	return invites, nil
}

// SendInvite invites n.Email to register as n.Role. The college defaults to the
// inviter's.
func (d *Desk) SendInvite(ctx context.Context, n campus.NewInvite) error {
	s, err := d.requireRole(inviteAdmins)
	if err != nil {
		return err
	}
	n.Role = role.Role(role.Normalize(string(n.Role)))
	if n.CollegeName == "" {
		n.CollegeName = s.CollegeName
	}
	if err := n.Validate(); err != nil {
		return d.reject(ctx, "invite.create", err)
	}

	if err := d.client.CreateInvite(ctx, n); err != nil {
		return d.fail(ctx, "invite.create", err, api.CreateInviteFailedMessage)
	}
	d.metricInc(MetricInviteCreated)
	d.emit(ctx, NoticeSuccess, "invite.create", "Invitation sent successfully to "+n.Email)
	return nil
}

// VerifyInvite checks an invitation token before registration. It needs no session.
func (d *Desk) VerifyInvite(ctx context.Context, token string) (*campus.InviteVerification, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	v, err := d.client.VerifyInvite(ctx, token)
	if err != nil {
		return nil, d.fail(ctx, "invite.verify", err, api.VerifyInviteFailedMessage)
	}
	if !v.Valid {
		msg := v.Message
		if msg == "" {
			msg = api.VerifyInviteFailedMessage
		}
		d.emit(ctx, NoticeError, "invite.verify", msg)
	}
	return v, nil
}
