package campus

import "errors"

// Messages shown to the user when a local rule blocks a request.
const (
	RemarkRequiredMessage    = "Please provide a remark"
	WeekStartRequiredMessage = "Please select the week start date"
	RatingRequiredMessage    = "Please select a rating"
	InviteEmailMessage       = "Please enter an email address"
)

var (
	// ErrRemarkRequired is returned when a complaint is marked solved without a remark.
	ErrRemarkRequired = errors.New("remark required to mark a complaint solved")
	// ErrComplaintIDRequired is returned for a status change naming no complaint.
	ErrComplaintIDRequired = errors.New("complaint id required")
	// ErrInvalidStatus is returned for a status outside pending, in_progress and solved.
	ErrInvalidStatus = errors.New("invalid complaint status")
	// ErrAnonymousWithStudent is returned for an anonymous complaint carrying a student reference.
	ErrAnonymousWithStudent = errors.New("anonymous complaint must not reference a student")
	// ErrComplaintIncomplete is returned when title or description is blank.
	ErrComplaintIncomplete = errors.New("complaint title and description are required")
	// ErrInvalidDepartment is returned for a complaint type other than hostel or mess.
	ErrInvalidDepartment = errors.New("complaint type must be hostel or mess")
	// ErrInvalidMealType is returned for a meal other than breakfast, lunch or dinner.
	ErrInvalidMealType = errors.New("invalid meal type")
	// ErrInvalidPreference is returned for a preference other than veg or non_veg.
	ErrInvalidPreference = errors.New("invalid meal preference")
	// ErrWeekStartRequired is returned when a schedule has no week start date.
	ErrWeekStartRequired = errors.New("week start date required")
	// ErrInvalidSchedule is returned for a malformed weekly schedule.
	ErrInvalidSchedule = errors.New("invalid weekly schedule")
	// ErrRatingRequired is returned for feedback without a rating.
	ErrRatingRequired = errors.New("feedback rating required")
	// ErrInvalidRating is returned for a rating outside 1..5.
	ErrInvalidRating = errors.New("feedback rating must be between 1 and 5")
	// ErrInviteEmailRequired is returned for an invite without an email.
	ErrInviteEmailRequired = errors.New("invite email required")
	// ErrInviteRole is returned for a role that cannot be invited.
	ErrInviteRole = errors.New("role cannot be invited")
	// ErrEmptyMessage is returned for a blank chat message.
	ErrEmptyMessage = errors.New("chat message is empty")
)
