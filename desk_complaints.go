package campusdesk

import (
	"context"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
)

// Complaint notices.
const (
	ComplaintRaisedMessage    = "Complaint raised successfully!"
	AnonymousComplaintMessage = "Anonymous complaint submitted successfully!"
)

var (
	complaintStaff = role.Of(role.HostelAdmin, role.MessAdmin, role.SuperAdmin, role.Admin, role.Warden)
	students       = role.Of(role.Student)
)

// Complaints refreshes the board: a student sees their own complaints, staff see the
// complaints of their college.
func (d *Desk) Complaints(ctx context.Context) ([]campus.Complaint, error) {
	s, err := d.requireRole(role.Set{})
	if err != nil {
		return nil, err
	}

	var items []campus.Complaint
	if s.Role == role.Student {
		items, err = d.client.StudentComplaints(ctx)
	} else {
		items, err = d.client.AdminComplaints(ctx)
	}
	if err != nil {
		return nil, d.fail(ctx, "complaints", err, api.FetchComplaintsFailedMessage)
	}
	d.board.Replace(items)
	return d.board.Items(), nil
}

// RaiseComplaint files a complaint as the signed-in student.
func (d *Desk) RaiseComplaint(ctx context.Context, n campus.NewComplaint) (*campus.Complaint, error) {
	if _, err := d.requireRole(students); err != nil {
		return nil, err
	}
	n = n.WithDefaults()
	if err := n.Validate(); err != nil {
		return nil, d.reject(ctx, "complaint.create", err)
	}

	created, err := d.client.CreateComplaint(ctx, n)
	if err != nil {
		return nil, d.fail(ctx, "complaint.create", err, api.RaiseComplaintFailedMessage)
	}
	if created != nil && created.ID != "" {
		d.board.Upsert(*created)
	}
	d.metricInc(MetricComplaintCreated)
	d.emit(ctx, NoticeSuccess, "complaint.create", ComplaintRaisedMessage)
	return created, nil
}

// SubmitAnonymousComplaint files a complaint without identity. It needs no session and
// never sends the bearer token; a complaint that names a student is refused.
func (d *Desk) SubmitAnonymousComplaint(ctx context.Context, n campus.NewComplaint) error {
	if err := d.ready(); err != nil {
		return err
	}
	n.IsAnonymous = true
	if n.Type == "" {
		n.Type = campus.DepartmentHostel
	}
	if err := n.Validate(); err != nil {
		return d.reject(ctx, "complaint.anonymous", err)
	}

	if err := d.client.CreateAnonymousComplaint(ctx, n); err != nil {
		return d.fail(ctx, "complaint.anonymous", err, api.AnonymousFailedMessage)
	}
	d.metricInc(MetricComplaintCreated)
	d.emit(ctx, NoticeSuccess, "complaint.anonymous", AnonymousComplaintMessage)
	return nil
}

// UpdateComplaintStatus moves a complaint. Solving without a remark is refused with an
// error notice and no request. After the backend confirms, the board shows the new
// status; the returned complaint is the board entry, zero when it was not listed.
func (d *Desk) UpdateComplaintStatus(ctx context.Context, change campus.StatusChange) (campus.Complaint, error) {
	if _, err := d.requireRole(complaintStaff); err != nil {
		return campus.Complaint{}, err
	}
	if err := change.Validate(); err != nil {
		return campus.Complaint{}, d.reject(ctx, "complaint.status", err)
	}

	if err := d.client.UpdateComplaintStatus(ctx, change); err != nil {
		return campus.Complaint{}, d.fail(ctx, "complaint.status", err, api.UpdateFailedMessage)
	}
	updated, _ := d.board.Apply(change, d.now())
	d.metricInc(MetricComplaintStatusUpdated)
	d.emit(ctx, NoticeSuccess, "complaint.status", "Complaint marked as "+change.Status.Label())
	return updated, nil
}
