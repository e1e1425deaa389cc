package api

import (
	"context"
	"net/http"

	"github.com/MrEthical07/campusdesk/campus"
)

// Generic complaint messages.
const (
	FetchComplaintsFailedMessage = "Failed to fetch complaints"
	RaiseComplaintFailedMessage  = "Failed to raise complaint"
	AnonymousFailedMessage       = "Failed to submit complaint"
	UpdateFailedMessage          = "Update failed"
)

// StudentComplaints lists the signed-in student's complaints.
func (c *Client) StudentComplaints(ctx context.Context) ([]campus.Complaint, error) {
	var out []campus.Complaint
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/complaints/student",
		path:     "/complaints/student",
		fallback: FetchComplaintsFailedMessage,
	}, &out)
	return out, err
}

// AdminComplaints lists the complaints routed to the signed-in admin.
func (c *Client) AdminComplaints(ctx context.Context) ([]campus.Complaint, error) {
	var out []campus.Complaint
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/complaints/admin",
		path:     "/complaints/admin",
		fallback: FetchComplaintsFailedMessage,
	}, &out)
	return out, err
}

// CreateComplaint raises a complaint as the signed-in student. The response body is
// returned when the backend echoes the stored complaint.
func (c *Client) CreateComplaint(ctx context.Context, n campus.NewComplaint) (*campus.Complaint, error) {
	var out campus.Complaint
	err := c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/complaints",
		path:     "/complaints",
		body:     n,
		fallback: RaiseComplaintFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAnonymousComplaint submits a complaint without identity. The student reference
// is stripped and no bearer token is sent.
func (c *Client) CreateAnonymousComplaint(ctx context.Context, n campus.NewComplaint) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/complaints/anonymous",
		path:     "/complaints/anonymous",
		body:     n.Anonymized(),
		public:   true,
		fallback: AnonymousFailedMessage,
	}, nil)
}

// UpdateComplaintStatus sends an admin status change.
func (c *Client) UpdateComplaintStatus(ctx context.Context, change campus.StatusChange) error {
	const route = "/complaints/{id}/status"
	id, err := segment(route, change.ComplaintID)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		method:   http.MethodPut,
		route:    route,
		path:     "/complaints/" + id + "/status",
		body:     change.Body(),
		fallback: UpdateFailedMessage,
	}, nil)
}
