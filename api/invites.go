package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
)

// Generic invite messages.
const (
	LoadInvitesFailedMessage  = "Failed to load invitations"
	CreateInviteFailedMessage = "Failed to send invitation. Please try again."
	VerifyInviteFailedMessage = "Invalid or expired invitation"
)

// Invites lists the invites sent for r.
func (c *Client) Invites(ctx context.Context, r role.Role) ([]campus.Invite, error) {
	var out campus.InviteList
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/invites",
		path:     "/invites",
		query:    url.Values{"role": {string(r)}},
		fallback: LoadInvitesFailedMessage,
	}, &out)
	return out.Invites, err
}

// CreateInvite sends an invitation.
func (c *Client) CreateInvite(ctx context.Context, n campus.NewInvite) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/invites/create",
		path:     "/invites/create",
		body:     n,
		fallback: CreateInviteFailedMessage,
	}, nil)
}

// VerifyInvite checks an invite token before registration. It is public.
func (c *Client) VerifyInvite(ctx context.Context, token string) (*campus.InviteVerification, error) {
	var out campus.InviteVerification
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/invites/verify",
		path:     "/invites/verify",
		query:    url.Values{"token": {token}},
		public:   true,
		fallback: VerifyInviteFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
