package validate

import "github.com/MrEthical07/campusdesk/role"

// Registration is the union of all registration form fields. Which fields are required
// depends on the portal being registered for.
type Registration struct {
	Email           string
	Mobile          string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	StudentID       string
	CollegeName     string
	UniversityName  string
	Location        string
	StaffID         string
}

// Contact checks the fields every registration shares: email, mobile, password and its
// confirmation.
func Contact(f Registration) Errors {
	errs := Errors{}
	errs.add("email", Email(f.Email))
	errs.add("mobile", Mobile(f.Mobile))
	errs.add("password", Password(f.Password))
	errs.add("confirmPassword", ConfirmPassword(f.Password, f.ConfirmPassword))
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RegistrationForm checks f for portal p. The super-admin registers a college; the
// student and staff portals register a person.
func RegistrationForm(p role.Portal, f Registration) Errors {
	errs := Contact(f)
	if errs == nil {
		errs = Errors{}
	}

	switch p {
	case role.PortalSuperAdmin:
		errs.add("collegeName", Required(f.CollegeName, "College Name"))
		errs.add("universityName", Required(f.UniversityName, "University Name"))
		errs.add("location", Required(f.Location, "Location"))
	case role.PortalStudent:
		errs.add("firstName", Required(f.FirstName, "First Name"))
		errs.add("lastName", Required(f.LastName, "Last Name"))
		errs.add("studentId", Required(f.StudentID, "Student ID"))
		errs.add("collegeName", Required(f.CollegeName, "College Name"))
	default:
		errs.add("firstName", Required(f.FirstName, "First Name"))
		errs.add("lastName", Required(f.LastName, "Last Name"))
		errs.add("staffId", Required(f.StaffID, "Staff ID"))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Login checks the sign-in form.
func Login(email, password string) Errors {
	errs := Errors{}
	errs.add("email", Email(email))
	errs.add("password", Required(password, "Password"))
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ResetPassword checks the new-password form. A mismatch is reported before length.
func ResetPassword(password, confirm string) Errors {
	if msg := ConfirmPassword(password, confirm); msg != "" {
		return Errors{"confirmPassword": msg}
	}
	if msg := Password(password); msg != "" {
		return Errors{"password": msg}
	}
	return nil
}
