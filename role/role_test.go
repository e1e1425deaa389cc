package role

import (
	"strings"
	"testing"
)

func TestParseNormalizesSpellings(t *testing.T) {
	cases := map[string]Role{
		"super-admin":   SuperAdmin,
		"super_admin":   SuperAdmin,
		" Hostel-Admin": HostelAdmin,
		"MESS_ADMIN":    MessAdmin,
		"student":       Student,
		"warden":        Warden,
		"admin":         Admin,
	}
	for in, want := range cases {
		got, ok := Parse(in)
		if !ok {
			t.Fatalf("Parse(%q) reported unknown role", in)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %q, want %q", in, got, want)
		}
	}

	if _, ok := Parse("janitor"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestDashboardTable(t *testing.T) {
	cases := map[Role]string{
		SuperAdmin:  "/super-admin/dashboard",
		Admin:       "/super-admin/dashboard",
		Student:     "/student/dashboard",
		HostelAdmin: "/hostel-admin/dashboard",
		Warden:      "/hostel-admin/dashboard",
		MessAdmin:   "/mess-admin/dashboard",
		"janitor":   "/",
		"":          "/",
	}
	for r, want := range cases {
		if got := Dashboard(r); got != want {
			t.Fatalf("Dashboard(%q) = %q, want %q", r, got, want)
		}
	}
}

func TestSetContainsNormalizes(t *testing.T) {
	s := NewSet("super-admin", "admin")
	if !s.Contains("super_admin") {
		t.Fatal("expected underscore spelling to match hyphen member")
	}
	if !s.Contains("ADMIN") {
		t.Fatal("expected case-insensitive membership")
	}
	if s.Contains("student") {
		t.Fatal("student must not be admitted")
	}
	if s.Empty() {
		t.Fatal("set with members reported empty")
	}
	if !NewSet().Empty() {
		t.Fatal("empty set reported members")
	}
}

func TestEveryRoleHasMenuAndDashboard(t *testing.T) {
	for _, r := range All {
		if len(Menu(r)) == 0 {
			t.Fatalf("role %q has no menu", r)
		}
		if Dashboard(r) == "/" {
			t.Fatalf("role %q has no dashboard", r)
		}
		if Menu(r)[0].Path != Dashboard(r) {
			t.Fatalf("role %q menu does not start at its dashboard", r)
		}
	}
}

func TestPortalRoundTrip(t *testing.T) {
	for _, p := range AllPortals {
		got, ok := ParsePortal(string(p))
		if !ok || got != p {
			t.Fatalf("ParsePortal(%q) = %q, %v", p, got, ok)
		}
		r := p.Role()
		if !p.Allowed().Contains(string(r)) {
			t.Fatalf("portal %q does not admit its own role %q", p, r)
		}
	}

	if p, ok := ParsePortal("hostel_admin"); !ok || p != PortalHostelAdmin {
		t.Fatalf("underscore portal slug not accepted: %q %v", p, ok)
	}
	if PortalSuperAdmin.Role().Slug() != "super-admin" {
		t.Fatalf("unexpected slug %q", PortalSuperAdmin.Role().Slug())
	}
}

func TestDashboardIsAdmittedByItsPortal(t *testing.T) {
	for _, r := range All {
		dash := Dashboard(r)
		admitted := false
		for _, p := range AllPortals {
			if strings.HasPrefix(dash, p.Prefix()+"/") && p.Allowed().Contains(string(r)) {
				admitted = true
			}
		}
		if !admitted {
			t.Fatalf("role %q lands on %q but no portal there admits it", r, dash)
		}
	}
}
