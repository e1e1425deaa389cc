package campus

import (
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/validate"
)

// RegisterRequest is the body of a registration. Fields a portal does not collect are
// omitted.
type RegisterRequest struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	StudentID      string `json:"studentId,omitempty"`
	CollegeName    string `json:"collegeName,omitempty"`
	UniversityName string `json:"universityName,omitempty"`
	Location       string `json:"location,omitempty"`
	StaffID        string `json:"staffId,omitempty"`
	InviteToken    string `json:"inviteToken,omitempty"`
}

// NewRegisterRequest maps a registration form onto the body portal p sends. The
// super-admin registers a college and sends no personal name.
func NewRegisterRequest(p role.Portal, f validate.Registration) RegisterRequest {
	req := RegisterRequest{
		Email:    f.Email,
		Mobile:   validate.SanitizeMobile(f.Mobile),
		Password: f.Password,
		Role:     string(p.Role()),
	}
	switch p {
	case role.PortalSuperAdmin:
		req.CollegeName = f.CollegeName
		req.UniversityName = f.UniversityName
		req.Location = f.Location
	case role.PortalStudent:
		req.FirstName = f.FirstName
		req.LastName = f.LastName
		req.StudentID = f.StudentID
		req.CollegeName = f.CollegeName
	default:
		req.FirstName = f.FirstName
		req.LastName = f.LastName
		req.StaffID = f.StaffID
	}
	return req
}
