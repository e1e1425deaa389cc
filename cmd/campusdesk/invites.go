package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
)

func newInvitesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Manage registration invitations (super-admin)",
	}

	cmd.AddCommand(newInvitesListCmd(opts))
	cmd.AddCommand(newInvitesSendCmd(opts))
	cmd.AddCommand(newInvitesVerifyCmd(opts))

	return cmd
}

type inviteOutput struct {
	campus.Invite
	Effective campus.InviteStatus `json:"effectiveStatus"`
}

func newInvitesListCmd(opts *globalOptions) *cobra.Command {
	var forRole string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the invitations sent for a role",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			invites, err := a.desk.Invites(ctx, role.Role(forRole))
			if err != nil {
				return err
			}
			now := a.desk.Now()
			out := make([]inviteOutput, 0, len(invites))
			for _, inv := range invites {
				out = append(out, inviteOutput{Invite: inv, Effective: inv.EffectiveStatus(now)})
			}
			return a.print(out, func(w io.Writer) {
				if len(out) == 0 {
					fmt.Fprintln(w, "No invitations")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "EMAIL\tROLE\tSTATUS\tEXPIRES")
				for _, inv := range out {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", inv.Email, inv.Role, inv.Effective, inv.ExpiresAt.Format(time.DateOnly))
				}
				_ = tw.Flush()
			})
		}),
	}

	cmd.Flags().StringVar(&forRole, "role", string(role.Student), "student, hostel_admin or mess_admin")

	return cmd
}

func newInvitesSendCmd(opts *globalOptions) *cobra.Command {
	var n campus.NewInvite

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Invite an email to register under a role",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			return a.desk.SendInvite(ctx, n)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&n.Email, "email", "", "email to invite")
	f.StringVar((*string)(&n.Role), "role", string(role.Student), "student, hostel_admin or mess_admin")
	f.StringVar(&n.CollegeName, "college", "", "college (defaults to yours)")

	return cmd
}

func newInvitesVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check an invitation token before registering",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			v, err := a.desk.VerifyInvite(ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(v, func(w io.Writer) {
				if !v.Valid {
					fmt.Fprintln(w, "Invitation is not valid")
					return
				}
				fmt.Fprintf(w, "Invitation for %s as %s at %s\n", v.Email, v.Role.Label(), v.CollegeName)
			})
		}),
	}
}
