package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
	"github.com/MrEthical07/campusdesk/validate"
)

func parsePortalArg(arg string) (role.Portal, error) {
	p, ok := role.ParsePortal(arg)
	if !ok {
		return "", fmt.Errorf("unknown portal %q", arg)
	}
	return p, nil
}

// readSecret returns flagValue, or the first line of in when the flag was not given.
func readSecret(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type sessionOutput struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"userId,omitempty"`
	Role          string     `json:"role,omitempty"`
	DisplayName   string     `json:"displayName,omitempty"`
	Email         string     `json:"email,omitempty"`
	CollegeName   string     `json:"collegeName,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Dashboard     string     `json:"dashboard,omitempty"`
}

func newSessionOutput(s session.Session) sessionOutput {
	out := sessionOutput{
		Authenticated: s.Authenticated(),
		UserID:        s.UserID,
		Role:          string(s.Role),
		DisplayName:   s.DisplayName,
		Email:         s.Email,
		CollegeName:   s.CollegeName,
	}
	if s.ExpiresAt > 0 {
		exp := time.Unix(s.ExpiresAt, 0)
		out.ExpiresAt = &exp
	}
	if out.Authenticated {
		out.Dashboard = role.Dashboard(s.Role)
	}
	return out
}

func printAuth(a *app, res campusdesk.AuthResult) error {
	out := newSessionOutput(res.Session)
	return a.print(out, func(w io.Writer) {
		if out.Authenticated {
			fmt.Fprintf(w, "Signed in as %s (%s)\n", out.DisplayName, res.Session.Role.Label())
		}
		fmt.Fprintf(w, "Next: %s\n", res.Redirect)
	})
}

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login <portal>",
		Short: "Sign in through a portal",
		Long: `Sign in through a portal (student, hostel-admin, mess-admin, super-admin).
Without --password the password is read from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			p, err := parsePortalArg(args[0])
			if err != nil {
				return err
			}
			pw, err := readSecret(password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := a.desk.Login(ctx, p, email, pw)
			if err != nil {
				return err
			}
			return printAuth(a, res)
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and remove it from storage",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			res, err := a.desk.Logout(ctx)
			if err != nil {
				return err
			}
			return printAuth(a, res)
		}),
	}
}

func newWhoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the persisted session",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(_ context.Context, a *app, _ *cobra.Command, _ []string) error {
			out := newSessionOutput(a.desk.Session())
			return a.print(out, func(w io.Writer) {
				if !out.Authenticated {
					fmt.Fprintln(w, "Not signed in")
					return
				}
				fmt.Fprintf(w, "%s <%s>\nRole: %s\nCollege: %s\nDashboard: %s\n",
					out.DisplayName, out.Email, out.Role, out.CollegeName, out.Dashboard)
				if out.ExpiresAt != nil {
					fmt.Fprintf(w, "Expires: %s\n", out.ExpiresAt.Format(time.RFC1123))
				}
			})
		}),
	}
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	var (
		form   validate.Registration
		invite string
	)

	cmd := &cobra.Command{
		Use:   "register <portal>",
		Short: "Create an account through a portal and sign it in",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			p, err := parsePortalArg(args[0])
			if err != nil {
				return err
			}
			if form.Password, err = readSecret(form.Password, cmd.InOrStdin()); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			res, err := a.desk.Register(ctx, p, form, invite)
			if err != nil {
				return err
			}
			return printAuth(a, res)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&form.Email, "email", "", "account email")
	f.StringVar(&form.Mobile, "mobile", "", "10-digit mobile number")
	f.StringVar(&form.Password, "password", "", "password, at least 6 characters")
	f.StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (defaults to --password)")
	f.StringVar(&form.FirstName, "first-name", "", "first name")
	f.StringVar(&form.LastName, "last-name", "", "last name")
	f.StringVar(&form.StudentID, "student-id", "", "student ID (student portal)")
	f.StringVar(&form.StaffID, "staff-id", "", "staff ID (hostel and mess portals)")
	f.StringVar(&form.CollegeName, "college", "", "college name")
	f.StringVar(&form.UniversityName, "university", "", "university name (super-admin portal)")
	f.StringVar(&form.Location, "location", "", "college location (super-admin portal)")
	f.StringVar(&invite, "invite", "", "invitation token")

	return cmd
}

func newForgotCmd(opts *globalOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if err := a.desk.ForgotPassword(ctx, email); err != nil {
				return err
			}
			return a.print(map[string]string{"message": campusdesk.ForgotSuccessMessage}, func(w io.Writer) {
				fmt.Fprintln(w, campusdesk.ForgotSuccessMessage)
			})
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}

func newResetCmd(opts *globalOptions) *cobra.Command {
	var password, confirm string

	cmd := &cobra.Command{
		Use:   "reset <token>",
		Short: "Set a new password with an emailed reset token",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			pw, err := readSecret(password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if confirm == "" {
				confirm = pw
			}
			res, err := a.desk.ResetPassword(ctx, args[0], pw, confirm)
			if err != nil {
				return err
			}
			return printAuth(a, res)
		}),
	}

	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "new password confirmation (defaults to --password)")

	return cmd
}
