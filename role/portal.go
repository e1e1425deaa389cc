package role

import "strings"

// Portal is one of the role-scoped application areas, identified by its URL prefix.
type Portal string

const (
	PortalStudent     Portal = "student"
	PortalHostelAdmin Portal = "hostel-admin"
	PortalMessAdmin   Portal = "mess-admin"
	PortalSuperAdmin  Portal = "super-admin"
	// PortalWarden and PortalAdmin are legacy portals kept for old bookmarks.
	PortalWarden Portal = "warden"
	PortalAdmin  Portal = "admin"
)

// Portals lists the selectable portals in display order. Legacy portals are routable but
// never offered for selection.
var Portals = []Portal{PortalStudent, PortalSuperAdmin, PortalHostelAdmin, PortalMessAdmin}

// AllPortals lists every routable portal.
var AllPortals = []Portal{PortalSuperAdmin, PortalMessAdmin, PortalHostelAdmin, PortalStudent, PortalWarden, PortalAdmin}

// ParsePortal accepts a portal slug in either spelling ("hostel_admin", "hostel-admin").
func ParsePortal(s string) (Portal, bool) {
	p := Portal(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch p {
	case PortalStudent, PortalHostelAdmin, PortalMessAdmin, PortalSuperAdmin, PortalWarden, PortalAdmin:
		return p, true
	default:
		return p, false
	}
}

// Prefix returns the route prefix of the portal ("/hostel-admin").
func (p Portal) Prefix() string {
	return "/" + string(p)
}

// Dashboard returns the portal's own dashboard route. Unlike [Dashboard] it keeps legacy
// portals on their own prefix.
func (p Portal) Dashboard() string {
	return p.Prefix() + "/dashboard"
}

// Role returns the role a user signs in as through this portal.
func (p Portal) Role() Role {
	switch p {
	case PortalStudent:
		return Student
	case PortalHostelAdmin:
		return HostelAdmin
	case PortalMessAdmin:
		return MessAdmin
	case PortalSuperAdmin:
		return SuperAdmin
	case PortalWarden:
		return Warden
	case PortalAdmin:
		return Admin
	default:
		return ""
	}
}

// Allowed returns the roles admitted into the portal.
func (p Portal) Allowed() Set {
	switch p {
	case PortalSuperAdmin, PortalAdmin:
		return Of(SuperAdmin, Admin)
	case PortalHostelAdmin:
		return Of(HostelAdmin, Warden)
	case PortalWarden:
		return Of(Warden)
	case PortalMessAdmin:
		return Of(MessAdmin)
	case PortalStudent:
		return Of(Student)
	default:
		return Set{}
	}
}

// Title returns the portal card title shown on the selection page.
func (p Portal) Title() string {
	switch p {
	case PortalStudent:
		return "Student"
	case PortalHostelAdmin, PortalWarden:
		return "Hostel Admin"
	case PortalMessAdmin:
		return "Mess Admin"
	case PortalSuperAdmin, PortalAdmin:
		return "Super Admin"
	default:
		return ""
	}
}

// Description returns the portal card blurb.
func (p Portal) Description() string {
	switch p {
	case PortalStudent:
		return "Raise complaints, pick meals and share feedback"
	case PortalHostelAdmin, PortalWarden:
		return "Manage hostel complaints and track trends"
	case PortalMessAdmin:
		return "Plan the weekly menu and follow meal headcounts"
	case PortalSuperAdmin, PortalAdmin:
		return "Invite staff and students and oversee the college"
	default:
		return ""
	}
}

// MenuItem is one entry of a portal's navigation sidebar.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Menu returns the navigation menu for the portal a role belongs to.
func Menu(r Role) []MenuItem {
	switch r {
	case SuperAdmin, Admin:
		return []MenuItem{
			{Label: "Dashboard", Path: "/super-admin/dashboard"},
			{Label: "Complaints", Path: "/super-admin/complaints"},
			{Label: "Feedback & Ratings", Path: "/super-admin/feedback"},
			{Label: "User Management", Path: "/super-admin/users"},
			{Label: "Analytics", Path: "/super-admin/analytics"},
			{Label: "Reports", Path: "/super-admin/reports"},
			{Label: "College Settings", Path: "/super-admin/settings"},
		}
	case HostelAdmin, Warden:
		return []MenuItem{
			{Label: "Dashboard", Path: "/hostel-admin/dashboard"},
			{Label: "Complaints", Path: "/hostel-admin/complaints"},
			{Label: "Trends", Path: "/hostel-admin/trends"},
		}
	case MessAdmin:
		return []MenuItem{
			{Label: "Dashboard", Path: "/mess-admin/dashboard"},
			{Label: "Complaints", Path: "/mess-admin/complaints"},
			{Label: "Menu Manager", Path: "/mess-admin/menu"},
			{Label: "Feedback", Path: "/mess-admin/feedback"},
			{Label: "Trends", Path: "/mess-admin/trends"},
		}
	case Student:
		return []MenuItem{
			{Label: "Dashboard", Path: "/student/dashboard"},
			{Label: "Raise Complaint", Path: "/student/complaint/new"},
			{Label: "My Complaints", Path: "/student/complaints"},
			{Label: "Mess Menu", Path: "/student/mess-menu"},
			{Label: "Feedback", Path: "/student/feedback"},
		}
	default:
		return nil
	}
}
