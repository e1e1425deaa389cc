package campus

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle position of a complaint: pending → in_progress → solved.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSolved     Status = "solved"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusSolved}

// ParseStatus accepts the canonical values and the backend's display spellings
// ("Pending", "In Progress", "Solved", "resolved").
func ParseStatus(s string) (Status, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch n {
	case "pending", "open":
		return StatusPending, true
	case "in_progress", "inprogress":
		return StatusInProgress, true
	case "solved", "resolved", "closed":
		return StatusSolved, true
	default:
		return "", false
	}
}

// Valid reports whether s is one of [Statuses].
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSolved:
		return true
	default:
		return false
	}
}

// Label is the display spelling the backend stores.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusSolved:
		return "Solved"
	default:
		return string(s)
	}
}

// UnmarshalJSON normalizes any accepted spelling. Unknown values are kept verbatim.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseStatus(raw); ok {
		*s = parsed
		return nil
	}
	*s = Status(raw)
	return nil
}

// Department is the complaint type: which admin desk handles it.
type Department string

const (
	DepartmentHostel Department = "hostel"
	DepartmentMess   Department = "mess"
)

// ParseDepartment accepts "hostel"/"Hostel" and "mess"/"Mess".
func ParseDepartment(s string) (Department, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hostel":
		return DepartmentHostel, true
	case "mess":
		return DepartmentMess, true
	default:
		return "", false
	}
}

// UnmarshalJSON lowercases the department.
func (d *Department) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseDepartment(raw); ok {
		*d = parsed
		return nil
	}
	*d = Department(raw)
	return nil
}

// Categories offered by the raise-complaint form. DefaultCategory is preselected.
var Categories = []string{"Maintenance", "Food Quality", "Hygiene", "Electricity", "Wifi/Internet", "Other"}

const DefaultCategory = "Maintenance"

// SeverityCritical is flagged in complaint lists.
const SeverityCritical = "Critical"

// StudentRef is the populated student reference of a non-anonymous complaint.
type StudentRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either a populated object or a bare id.
func (r *StudentRef) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = StudentRef{ID: id}
		return nil
	}
	type plain StudentRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = StudentRef(p)
	return nil
}

// HistoryEntry records one status change.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Remark    string    `json:"remark,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Complaint is a ticket raised by a student, or anonymously.
type Complaint struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	Type        Department     `json:"type,omitempty"`
	Severity    string         `json:"severity,omitempty"`
	Status      Status         `json:"status"`
	IsAnonymous bool           `json:"isAnonymous"`
	Student     *StudentRef    `json:"studentId,omitempty"`
	History     []HistoryEntry `json:"history,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
}

// Reporter is the name shown for the complaint's author.
func (c Complaint) Reporter() string {
	if c.IsAnonymous {
		return "Anonymous"
	}
	if c.Student == nil || c.Student.Name == "" {
		return "Unknown"
	}
	return c.Student.Name
}

// Critical reports whether the complaint carries the critical severity.
func (c Complaint) Critical() bool {
	return strings.EqualFold(c.Severity, SeverityCritical)
}

// Apply records change on c and appends a history entry stamped at.
func (c *Complaint) Apply(change StatusChange, at time.Time) {
	c.Status = change.Status
	c.History = append(c.History, HistoryEntry{
		Status:    change.Status,
		Remark:    strings.TrimSpace(change.Remark),
		UpdatedAt: at,
	})
}

// NewComplaint is the payload of the raise-complaint forms.
type NewComplaint struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Type        Department `json:"type,omitempty"`
	IsAnonymous bool       `json:"isAnonymous"`
	StudentRef  string     `json:"studentId,omitempty"`
}

// Validate checks the complaint before it is sent.
func (n NewComplaint) Validate() error {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Description) == "" {
		return ErrComplaintIncomplete
	}
	if n.Type != "" {
		if _, ok := ParseDepartment(string(n.Type)); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidDepartment, n.Type)
		}
	}
	if n.IsAnonymous && n.StudentRef != "" {
		return ErrAnonymousWithStudent
	}
	return nil
}

// WithDefaults fills the category and department the form preselects.
func (n NewComplaint) WithDefaults() NewComplaint {
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	if n.Type == "" {
		n.Type = DepartmentHostel
	}
	return n
}

// Anonymized returns the anonymous form of n: the flag set and the student reference
// stripped. The category mirrors the department, as the anonymous page does.
func (n NewComplaint) Anonymized() NewComplaint {
	n.IsAnonymous = true
	n.StudentRef = ""
	if n.Category == "" {
		switch n.Type {
		case DepartmentMess:
			n.Category = "Mess"
		case DepartmentHostel:
			n.Category = "Hostel"
		}
	}
	return n
}

// StatusChange is an admin's request to move a complaint.
type StatusChange struct {
	ComplaintID string
	Status      Status
	Remark      string
}

// Validate enforces that a complaint is named, the status is known and solving carries
// a remark.
func (c StatusChange) Validate() error {
	if strings.TrimSpace(c.ComplaintID) == "" {
		return ErrComplaintIDRequired
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	if c.Status == StatusSolved && strings.TrimSpace(c.Remark) == "" {
		return ErrRemarkRequired
	}
	return nil
}

// StatusUpdate is the wire body of a status change.
type StatusUpdate struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// Body returns the wire body. The status is sent in the backend's display spelling.
func (c StatusChange) Body() StatusUpdate {
	return StatusUpdate{Status: c.Status.Label(), Remark: c.Remark}
}
