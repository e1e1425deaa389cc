package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
)

// Generic messages used when the backend sends none.
const (
	LoginFailedMessage        = "Login failed"
	RegistrationFailedMessage = "Registration failed"
	ResetFailedMessage        = "Password reset failed"
	ForgotFailedMessage       = "Failed to send reset link. Please try again."
)

// LoginRequest carries the portal role so the backend can refuse a user signing in
// through the wrong portal.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthUser is the user part of an auth response.
type AuthUser struct {
	ID          string `json:"_id,omitempty"`
	AltID       string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	CollegeName string `json:"collegeName,omitempty"`
}

// UserID returns whichever id field the backend filled.
func (u AuthUser) UserID() string {
	if u.ID != "" {
		return u.ID
	}
	return u.AltID
}

// DisplayName prefers the full name, then first and last name, then the college.
func (u AuthUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.CollegeName
}

// AuthResponse is the body of login, registration and reset responses. The backend
// returns the user either flat next to the token or nested under "user".
type AuthResponse struct {
	AuthUser
	Token   string    `json:"token"`
	User    *AuthUser `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Profile merges the flat and nested user fields, nested taking precedence.
func (r AuthResponse) Profile() AuthUser {
	p := r.AuthUser
	if r.User == nil {
		return p
	}
	n := *r.User
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&p.ID, n.ID)
	merge(&p.AltID, n.AltID)
	merge(&p.Name, n.Name)
	merge(&p.FirstName, n.FirstName)
	merge(&p.LastName, n.LastName)
	merge(&p.Email, n.Email)
	merge(&p.Role, n.Role)
	merge(&p.CollegeName, n.CollegeName)
	return p
}

// Login signs in.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/auth/login",
		path:     "/auth/login",
		body:     req,
		fallback: LoginFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account through portal p.
func (c *Client) Register(ctx context.Context, p role.Portal, req campus.RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/auth/register/{role}",
		path:     "/auth/register/" + string(p),
		body:     req,
		fallback: RegistrationFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/auth/forgot-password",
		path:     "/auth/forgot-password",
		body:     map[string]string{"email": email},
		fallback: ForgotFailedMessage,
	}, nil)
}

// ResetPassword sets a new password with the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (*AuthResponse, error) {
	const route = "/auth/reset-password/{token}"
	escaped, err := segment(route, token)
	if err != nil {
		return nil, err
	}
	var out AuthResponse
	err = c.do(ctx, call{
		method:   http.MethodPut,
		route:    route,
		path:     "/auth/reset-password/" + escaped,
		body:     map[string]string{"password": password},
		fallback: ResetFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
