package campusdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/jwt"
	"github.com/MrEthical07/campusdesk/middleware"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
	"github.com/MrEthical07/campusdesk/validate"
	"go.uber.org/zap"
)

// Success messages of the auth flows.
const (
	LoginSuccessMessage    = "Login successful"
	RegisterSuccessMessage = "Registration successful"
	ForgotSuccessMessage   = "Password reset link sent to your email"
	ResetSuccessMessage    = "Password reset successful! Redirecting to login..."
	LogoutMessage          = "You have been logged out"
)

// AuthResult is the session after an auth flow and where the portal sends the user.
type AuthResult struct {
	Session  session.Session
	Redirect string
}

// Restore loads the persisted session. A session whose token has expired, or fails
// verification when signatures are checked, is deleted and [ErrSessionExpired] is
// returned with the anonymous session.
func (d *Desk) Restore(ctx context.Context) (session.Session, error) {
	if err := d.ready(); err != nil {
		return session.Session{}, err
	}

	var vetoed error
	sess, err := d.store.Restore(ctx, func(id session.Identity) error {
		vetoed = d.acceptIdentity(id)
		return vetoed
	})
	if err != nil {
		return sess, err
	}
	if vetoed != nil {
		d.metricInc(MetricSessionExpired)
		d.log.Info("dropped persisted session", zap.Error(vetoed))
		return sess, vetoed
	}
	if sess.Authenticated() {
		d.metricInc(MetricSessionRestored)
	}
	return sess, nil
}

func (d *Desk) acceptIdentity(id session.Identity) error {
	if id.ExpiresAt > 0 && !d.now().Before(time.Unix(id.ExpiresAt, 0)) {
		return ErrSessionExpired
	}
	_, err := d.tokens.Read(id.Token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrSessionExpired
	case d.tokens.Verifying():
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	default:
		// Opaque tokens cannot be inspected without verification.
		return nil
	}
}

// Login signs in through portal p. The portal's role is sent so the backend can refuse
// a user signing in through the wrong portal. Invalid input is rejected without a
// request.
func (d *Desk) Login(ctx context.Context, p role.Portal, email, password string) (AuthResult, error) {
	if err := d.ready(); err != nil {
		return AuthResult{}, err
	}
	if err := validate.Login(email, password).Err(); err != nil {
		return AuthResult{}, d.reject(ctx, "login", err)
	}

	sess, err := d.authenticate(ctx, session.OpLogin, "login", api.LoginFailedMessage, true,
		func(ctx context.Context) (*api.AuthResponse, error) {
			return d.client.Login(ctx, api.LoginRequest{
				Email:    email,
				Password: password,
				Role:     string(p.Role()),
			})
		})
	if err != nil {
		d.metricInc(MetricLoginFailure)
		return AuthResult{Session: sess}, err
	}
	d.metricInc(MetricLoginSuccess)
	d.emit(ctx, NoticeSuccess, "login", LoginSuccessMessage)

	dest := role.Dashboard(sess.Role)
	d.navigate(ctx, dest)
	return AuthResult{Session: sess, Redirect: dest}, nil
}

// Register creates an account through portal p and signs it in. inviteToken may be
// empty.
func (d *Desk) Register(ctx context.Context, p role.Portal, f validate.Registration, inviteToken string) (AuthResult, error) {
	if err := d.ready(); err != nil {
		return AuthResult{}, err
	}
	if !p.Role().Registrable() {
		return AuthResult{}, fmt.Errorf("%w: %s", ErrRegistrationClosed, p)
	}
	if err := validate.RegistrationForm(p, f).Err(); err != nil {
		return AuthResult{}, d.reject(ctx, "register", err)
	}

	req := campus.NewRegisterRequest(p, f)
	req.InviteToken = inviteToken
	sess, err := d.authenticate(ctx, session.OpRegister, "register", api.RegistrationFailedMessage, true,
		func(ctx context.Context) (*api.AuthResponse, error) {
			return d.client.Register(ctx, p, req)
		})
	if err != nil {
		d.metricInc(MetricRegisterFailure)
		return AuthResult{Session: sess}, err
	}
	d.metricInc(MetricRegisterSuccess)
	d.emit(ctx, NoticeSuccess, "register", RegisterSuccessMessage)

	dest := role.Dashboard(sess.Role)
	d.navigate(ctx, dest)
	return AuthResult{Session: sess, Redirect: dest}, nil
}

// ForgotPassword asks the backend to mail a reset link to email.
func (d *Desk) ForgotPassword(ctx context.Context, email string) error {
	if err := d.ready(); err != nil {
		return err
	}
	if msg := validate.Email(email); msg != "" {
		return d.reject(ctx, "forgot-password", validate.Errors{"email": msg})
	}
	if err := d.client.ForgotPassword(ctx, email); err != nil {
		return d.fail(ctx, "forgot-password", err, api.ForgotFailedMessage)
	}
	d.metricInc(MetricForgotPassword)
	d.emit(ctx, NoticeSuccess, "forgot-password", ForgotSuccessMessage)
	return nil
}

// ResetPassword sets a new password with the emailed token. On success the session is
// ended so the user signs in again with the new password.
func (d *Desk) ResetPassword(ctx context.Context, token, password, confirm string) (AuthResult, error) {
	if err := d.ready(); err != nil {
		return AuthResult{}, err
	}
	if err := validate.ResetPassword(password, confirm).Err(); err != nil {
		return AuthResult{}, d.reject(ctx, "reset-password", err)
	}

	sess, err := d.authenticate(ctx, session.OpReset, "reset-password", api.ResetFailedMessage, false,
		func(ctx context.Context) (*api.AuthResponse, error) {
			return d.client.ResetPassword(ctx, token, password)
		})
	if err != nil {
		d.metricInc(MetricResetFailure)
		return AuthResult{Session: sess}, err
	}
	d.metricInc(MetricResetSuccess)
	d.emit(ctx, NoticeSuccess, "reset-password", ResetSuccessMessage)

	sess, err = d.logout(ctx)
	d.navigate(ctx, middleware.SelectPortalPath)
	return AuthResult{Session: sess, Redirect: middleware.SelectPortalPath}, err
}

// Logout ends the session and removes it from storage.
func (d *Desk) Logout(ctx context.Context) (AuthResult, error) {
	if err := d.ready(); err != nil {
		return AuthResult{}, err
	}
	sess, err := d.logout(ctx)
	d.emit(ctx, NoticeInfo, "logout", LogoutMessage)
	d.navigate(ctx, middleware.SelectPortalPath)
	return AuthResult{Session: sess, Redirect: middleware.SelectPortalPath}, err
}

func (d *Desk) logout(ctx context.Context) (session.Session, error) {
	sess, err := d.store.Dispatch(ctx, session.Logout())
	d.metricInc(MetricLogout)
	if err != nil {
		d.log.Warn("remove persisted session", zap.Error(err))
	}
	return sess, err
}

// ClearStatus dismisses the loading, error and success flags of the session.
func (d *Desk) ClearStatus(ctx context.Context) (session.Session, error) {
	if err := d.ready(); err != nil {
		return session.Session{}, err
	}
	return d.store.Dispatch(ctx, session.Clear())
}

// authenticate runs call between Pending and Fulfilled/Rejected. With requireIdentity
// a response lacking token or role fails; otherwise it only clears the loading flag.
func (d *Desk) authenticate(
	ctx context.Context,
	op session.Op,
	name, fallback string,
	requireIdentity bool,
	call func(context.Context) (*api.AuthResponse, error),
) (session.Session, error) {
	_, _ = d.store.Dispatch(ctx, session.Pending(op))

	resp, err := call(ctx)
	if err != nil {
		msg := api.Message(err, fallback)
		sess, _ := d.store.Dispatch(ctx, session.Rejected(op, msg))
		d.emit(ctx, NoticeError, name, msg)
		return sess, err
	}

	id := d.identityFrom(resp)
	if id.Token == "" || id.Role == "" {
		if !requireIdentity {
			return d.store.Dispatch(ctx, session.Clear())
		}
		sess, _ := d.store.Dispatch(ctx, session.Fulfilled(op, id))
		d.emit(ctx, NoticeError, name, sess.Error)
		return sess, ErrIncompleteAuthResponse
	}

	sess, err := d.store.Dispatch(ctx, session.Fulfilled(op, id))
	if err != nil {
		// The session is live for this process even when it could not be persisted.
		d.log.Warn("persist session", zap.String("op", op.String()), zap.Error(err))
	}
	return sess, nil
}

func (d *Desk) identityFrom(resp *api.AuthResponse) session.Identity {
	p := resp.Profile()
	id := session.Identity{
		UserID:      p.UserID(),
		Role:        role.Role(role.Normalize(p.Role)),
		DisplayName: p.DisplayName(),
		Email:       p.Email,
		CollegeName: p.CollegeName,
		Token:       resp.Token,
	}
	if resp.Token == "" {
		return id
	}
	claims, err := d.tokens.Read(resp.Token)
	if err != nil || claims == nil {
		return id
	}
	if id.UserID == "" {
		id.UserID = claims.UserID()
	}
	if id.Role == "" {
		id.Role = role.Role(role.Normalize(claims.Role))
	}
	if id.DisplayName == "" {
		id.DisplayName = claims.Name
	}
	if id.CollegeName == "" {
		id.CollegeName = claims.CollegeName
	}
	if exp := claims.Expiry(); !exp.IsZero() {
		id.ExpiresAt = exp.Unix()
	}
	return id
}
