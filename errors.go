package campusdesk

import "errors"

var (
	// ErrInvalidConfig wraps every [Config.Validate] failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrBuilderUsed is returned by a second [Builder.Build].
	ErrBuilderUsed = errors.New("builder already used")
	// ErrDeskClosed is returned by operations after [Desk.Close].
	ErrDeskClosed = errors.New("desk closed")
	// ErrNotAuthenticated is returned by operations that need a signed-in session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned by Restore when the persisted token has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrRegistrationClosed is returned by Register for a portal without self-registration.
	ErrRegistrationClosed = errors.New("portal does not accept registrations")
	// ErrForbidden is returned when the session role may not perform the operation.
	ErrForbidden = errors.New("operation not permitted for role")
	// ErrIncompleteAuthResponse is returned when a successful auth response lacks a token
	// or role.
	ErrIncompleteAuthResponse = errors.New("auth response missing token or role")
)
