package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/campusdesk/role"
)

func TestMobile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "ten digits", input: "9876543210"},
		{name: "empty", input: "", wantErr: "Mobile number is required"},
		{name: "too short", input: "12345", wantErr: "Mobile number must be exactly 10 digits"},
		{name: "too long", input: "98765432101", wantErr: "Mobile number must be exactly 10 digits"},
		{name: "letters", input: "98765abcde", wantErr: "Mobile number must be exactly 10 digits"},
		{name: "prefixed", input: "+919876543", wantErr: "Mobile number must be exactly 10 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Mobile(tt.input))
		})
	}
}

func TestSanitizeMobile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"98765 43210", "9876543210"},
		{"+91-98765-43210", "9198765432"},
		{"abc", ""},
		{"123456789012345", "1234567890"},
		{"12a3", "123"},
	}
	for _, tt := range tests {
		got := SanitizeMobile(tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.LessOrEqual(t, len(got), MobileDigits)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "", Email("a@b.com"))
	assert.Equal(t, "", Email("First.Last@Campus.EDU"))
	assert.Equal(t, "Email is required", Email(""))
	assert.Equal(t, "Invalid email address", Email("a@b"))
	assert.Equal(t, "Invalid email address", Email("a b@c.com"))
	assert.Equal(t, "Invalid email address", Email("@c.com"))
}

func TestPasswordRules(t *testing.T) {
	assert.Equal(t, "Password is required", Password(""))
	assert.Equal(t, "Password must be at least 6 characters", Password("abcde"))
	assert.Equal(t, "", Password("abcdef"))
	assert.Equal(t, "Passwords do not match", ConfirmPassword("abcdef", "abcdeg"))
	assert.Equal(t, "", ConfirmPassword("abcdef", "abcdef"))
}

func TestRequired(t *testing.T) {
	assert.Equal(t, "Student ID is required", Required("  ", "Student ID"))
	assert.Equal(t, "Field is required", Required("", ""))
	assert.Equal(t, "", Required("x", "Student ID"))
}

func TestContactFailsOnMobileOnly(t *testing.T) {
	errs := Contact(Registration{
		Email:           "a@b.com",
		Mobile:          "12345",
		Password:        "abcdef",
		ConfirmPassword: "abcdef",
	})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"mobile"}, errs.Fields())
	assert.Equal(t, "Mobile number must be exactly 10 digits", errs["mobile"])
	assert.True(t, errors.Is(errs.Err(), ErrInvalid))
}

func TestRegistrationFormPerPortal(t *testing.T) {
	contact := Registration{
		Email:           "a@b.com",
		Mobile:          "9876543210",
		Password:        "abcdef",
		ConfirmPassword: "abcdef",
	}

	tests := []struct {
		name   string
		portal role.Portal
		want   []string
	}{
		{name: "super admin", portal: role.PortalSuperAdmin, want: []string{"collegeName", "location", "universityName"}},
		{name: "student", portal: role.PortalStudent, want: []string{"collegeName", "firstName", "lastName", "studentId"}},
		{name: "hostel admin", portal: role.PortalHostelAdmin, want: []string{"firstName", "lastName", "staffId"}},
		{name: "mess admin", portal: role.PortalMessAdmin, want: []string{"firstName", "lastName", "staffId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := RegistrationForm(tt.portal, contact)
			require.NotNil(t, errs)
			assert.Equal(t, tt.want, errs.Fields())
		})
	}
}

func TestRegistrationFormValidStudent(t *testing.T) {
	errs := RegistrationForm(role.PortalStudent, Registration{
		Email:           "s@campus.edu",
		Mobile:          "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Asha",
		LastName:        "Rao",
		StudentID:       "S-42",
		CollegeName:     "North Campus",
	})
	assert.Nil(t, errs)
	assert.NoError(t, errs.Err())
}

func TestResetPasswordOrder(t *testing.T) {
	errs := ResetPassword("abc", "abd")
	assert.Equal(t, Errors{"confirmPassword": "Passwords do not match"}, errs)

	errs = ResetPassword("abc", "abc")
	assert.Equal(t, Errors{"password": "Password must be at least 6 characters"}, errs)

	assert.Nil(t, ResetPassword("abcdef", "abcdef"))
}

func TestLoginForm(t *testing.T) {
	errs := Login("", "")
	assert.Equal(t, []string{"email", "password"}, errs.Fields())
	assert.Nil(t, Login("a@b.com", "x"))
}

func TestErrorsString(t *testing.T) {
	errs := Errors{"mobile": "m", "email": "e"}
	assert.Equal(t, "validation failed: email: e; mobile: m", errs.Error())
	assert.Equal(t, "e", errs.First())
}
