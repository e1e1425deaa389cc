package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/campusdesk/campus"
)

func newComplaintsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaints",
		Short: "List, raise and resolve complaints",
	}

	cmd.AddCommand(newComplaintsListCmd(opts))
	cmd.AddCommand(newComplaintsRaiseCmd(opts))
	cmd.AddCommand(newComplaintsAnonymousCmd(opts))
	cmd.AddCommand(newComplaintsStatusCmd(opts))

	return cmd
}

func printComplaints(w io.Writer, items []campus.Complaint) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No complaints")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTYPE\tTITLE\tREPORTER")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Status.Label(), c.Type, c.Title, c.Reporter())
	}
	_ = tw.Flush()
}

func newComplaintsListCmd(opts *globalOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your complaints, or your college's when signed in as staff",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			items, err := a.desk.Complaints(ctx)
			if err != nil {
				return err
			}
			if status != "" {
				st, ok := campus.ParseStatus(status)
				if !ok {
					return fmt.Errorf("%w: %q", campus.ErrInvalidStatus, status)
				}
				items = a.desk.Board().Filter(st)
			}
			return a.print(items, func(w io.Writer) { printComplaints(w, items) })
		}),
	}

	cmd.Flags().StringVar(&status, "status", "", "only complaints with this status")

	return cmd
}

func complaintFlags(cmd *cobra.Command, n *campus.NewComplaint) {
	f := cmd.Flags()
	f.StringVar(&n.Title, "title", "", "complaint title")
	f.StringVar(&n.Description, "description", "", "what happened")
	f.StringVar(&n.Category, "category", "", "category (default Maintenance)")
	f.StringVar((*string)(&n.Type), "type", "", "hostel or mess (default hostel)")
}

func newComplaintsRaiseCmd(opts *globalOptions) *cobra.Command {
	var n campus.NewComplaint

	cmd := &cobra.Command{
		Use:   "raise",
		Short: "Raise a complaint as the signed-in student",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			created, err := a.desk.RaiseComplaint(ctx, n)
			if err != nil {
				return err
			}
			return a.print(created, func(w io.Writer) {
				fmt.Fprintf(w, "Complaint %s raised\n", created.ID)
			})
		}),
	}

	complaintFlags(cmd, &n)

	return cmd
}

func newComplaintsAnonymousCmd(opts *globalOptions) *cobra.Command {
	var n campus.NewComplaint

	cmd := &cobra.Command{
		Use:   "anonymous",
		Short: "Submit a complaint without identity",
		Long:  `Submit a complaint without identity. No session is needed and none is sent.`,
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			return a.desk.SubmitAnonymousComplaint(ctx, n.Anonymized())
		}),
	}

	complaintFlags(cmd, &n)

	return cmd
}

func newComplaintsStatusCmd(opts *globalOptions) *cobra.Command {
	var remark string

	cmd := &cobra.Command{
		Use:   "status <id> <pending|in_progress|solved>",
		Short: "Move a complaint; solving requires --remark",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			st, ok := campus.ParseStatus(args[1])
			if !ok {
				st = campus.Status(args[1])
			}
			change := campus.StatusChange{ComplaintID: args[0], Status: st, Remark: remark}
			// Refresh so the board holds the complaint being moved. A change the desk
			// will refuse goes straight to it without any request.
			if change.Validate() == nil {
				if _, err := a.desk.Complaints(ctx); err != nil {
					return err
				}
			}
			updated, err := a.desk.UpdateComplaintStatus(ctx, change)
			if err != nil {
				return err
			}
			return a.print(updated, func(w io.Writer) {
				fmt.Fprintf(w, "Complaint %s is now %s\n", args[0], st.Label())
			})
		}),
	}

	cmd.Flags().StringVar(&remark, "remark", "", "resolution remark")

	return cmd
}
