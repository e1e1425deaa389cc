package campus

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/validate"
)

func TestInviteEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		invite Invite
		want   InviteStatus
	}{
		{"pending not expired", Invite{Status: InvitePending, ExpiresAt: now.Add(time.Hour)}, InvitePending},
		{"pending past expiry", Invite{Status: InvitePending, ExpiresAt: now.Add(-time.Second)}, InviteExpired},
		{"accepted past expiry", Invite{Status: InviteAccepted, ExpiresAt: now.Add(-time.Hour)}, InviteAccepted},
		{"stored expired", Invite{Status: InviteExpired, ExpiresAt: now.Add(time.Hour)}, InviteExpired},
		{"no expiry", Invite{Status: InvitePending}, InvitePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.invite
			assert.Equal(t, tt.want, tt.invite.EffectiveStatus(now))
			assert.Equal(t, before, tt.invite)
		})
	}
}

func TestNewInviteValidate(t *testing.T) {
	assert.ErrorIs(t, NewInvite{Role: role.Student}.Validate(), ErrInviteEmailRequired)
	assert.ErrorIs(t, NewInvite{Email: "a@b.com", Role: role.SuperAdmin}.Validate(), ErrInviteRole)
	assert.NoError(t, NewInvite{Email: "a@b.com", Role: "hostel-admin"}.Validate())
}

func TestChoiceBookLatestWins(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 5, 1, 8, 0, 0, 0, loc)
	b := NewChoiceBook(loc,
		MealChoice{Date: day, MealType: Lunch, Preference: Veg},
		MealChoice{Date: day.Add(3 * time.Hour), MealType: "Lunch", Preference: NonVeg},
		MealChoice{Date: day.AddDate(0, 0, 1), MealType: Lunch, Preference: Veg},
	)

	p, ok := b.Get(day, Lunch)
	require.True(t, ok)
	assert.Equal(t, NonVeg, p)

	_, ok = b.Get(day, Dinner)
	assert.False(t, ok)

	assert.Equal(t, map[MealType]Preference{Lunch: Veg}, b.Day(day.AddDate(0, 0, 1)))
}

func TestMealChoiceValidate(t *testing.T) {
	assert.NoError(t, MealChoice{MealType: Dinner, Preference: NonVeg}.Validate())
	assert.ErrorIs(t, MealChoice{MealType: "supper", Preference: Veg}.Validate(), ErrInvalidMealType)
	assert.ErrorIs(t, MealChoice{MealType: Dinner, Preference: "vegan"}.Validate(), ErrInvalidPreference)
}

func TestMealStatsMissingReadsZero(t *testing.T) {
	var stats MealStats
	require.NoError(t, json.Unmarshal([]byte(`[{"_id":"lunch","veg":12,"nonVeg":7}]`), &stats))

	assert.Equal(t, MealStat{MealType: Lunch, Veg: 12, NonVeg: 7}, stats.For(Lunch))
	assert.Equal(t, 19, stats.For(Lunch).Total())
	assert.Equal(t, MealStat{MealType: Dinner}, stats.For(Dinner))
}

func TestWeeklyScheduleValidate(t *testing.T) {
	w := NewWeeklySchedule("")
	assert.ErrorIs(t, w.Validate(), ErrWeekStartRequired)

	w = NewWeeklySchedule("2026-05-04")
	assert.NoError(t, w.Validate())

	w.Menu = w.Menu[:6]
	assert.ErrorIs(t, w.Validate(), ErrInvalidSchedule)

	w = NewWeeklySchedule("not-a-date")
	assert.ErrorIs(t, w.Validate(), ErrInvalidSchedule)

	w = NewWeeklySchedule("2026-05-04")
	w.Menu[0].Day, w.Menu[1].Day = w.Menu[1].Day, w.Menu[0].Day
	assert.ErrorIs(t, w.Validate(), ErrInvalidSchedule)
}

func TestLoadSchedule(t *testing.T) {
	doc := `
week_start_date: "2026-05-04"
menu:
  - day: monday
    breakfast: {veg: "Poha & Tea", non_veg: "Boiled Egg"}
    dinner: {veg: "Dal Rice"}
  - day: Sunday
    lunch: {veg: "Biryani", non_veg: "Chicken Biryani"}
`
	w, err := LoadSchedule(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, w.Validate())
	assert.Equal(t, "Monday", w.Menu[0].Day)
	assert.Equal(t, "Poha & Tea", w.Menu[0].Meal(Breakfast).Veg)
	assert.Equal(t, "Chicken Biryani", w.Menu[6].Lunch.NonVeg)

	sunday := time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC)
	menu, ok := w.On(sunday)
	require.True(t, ok)
	assert.Equal(t, "Biryani", menu.Lunch.Veg)

	data, err := json.Marshal(w.Menu[0].Breakfast)
	require.NoError(t, err)
	assert.JSONEq(t, `{"veg":"Poha & Tea","nonVeg":"Boiled Egg"}`, string(data))
}

func TestLoadScheduleRejectsUnknownDay(t *testing.T) {
	_, err := LoadSchedule(strings.NewReader("week_start_date: \"2026-05-04\"\nmenu:\n  - day: Funday\n"))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestFeedbackValidate(t *testing.T) {
	assert.ErrorIs(t, Feedback{MealType: Lunch}.Validate(), ErrRatingRequired)
	assert.ErrorIs(t, Feedback{MealType: Lunch, Rating: 6}.Validate(), ErrInvalidRating)
	assert.ErrorIs(t, Feedback{MealType: Lunch, Rating: -1}.Validate(), ErrInvalidRating)
	assert.ErrorIs(t, Feedback{Rating: 3}.Validate(), ErrInvalidMealType)
	assert.NoError(t, Feedback{MealType: Lunch, Rating: 5}.Validate())
}

func TestActiveMeal(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 5, 1, h, m, 0, 0, time.UTC) }
	tests := []struct {
		t    time.Time
		want MealType
		ok   bool
	}{
		{at(7, 59), "", false},
		{at(8, 0), Breakfast, true},
		{at(10, 30), Breakfast, true},
		{at(10, 31), "", false},
		{at(12, 30), Lunch, true},
		{at(15, 0), Lunch, true},
		{at(19, 29), "", false},
		{at(21, 45), Dinner, true},
		{at(22, 1), "", false},
	}
	for _, tt := range tests {
		got, ok := ActiveMeal(tt.t, DefaultMealWindows)
		assert.Equal(t, tt.ok, ok, tt.t.Format("15:04"))
		assert.Equal(t, tt.want, got, tt.t.Format("15:04"))
	}
}

func TestChatMessageValidate(t *testing.T) {
	assert.ErrorIs(t, ChatMessage{Message: "  "}.Validate(), ErrEmptyMessage)
	assert.NoError(t, ChatMessage{Message: "menu today?"}.Validate())
}

func TestNewRegisterRequest(t *testing.T) {
	form := validate.Registration{
		Email: "a@b.com", Mobile: "98765-43210", Password: "secret1",
		FirstName: "Asha", LastName: "Rao", StudentID: "S1", CollegeName: "North",
		UniversityName: "State", Location: "Pune", StaffID: "ST9",
	}

	su := NewRegisterRequest(role.PortalSuperAdmin, form)
	assert.Equal(t, "super_admin", su.Role)
	assert.Equal(t, "9876543210", su.Mobile)
	assert.Empty(t, su.FirstName)
	assert.Equal(t, "State", su.UniversityName)

	st := NewRegisterRequest(role.PortalStudent, form)
	assert.Equal(t, "student", st.Role)
	assert.Equal(t, "S1", st.StudentID)
	assert.Empty(t, st.StaffID)

	ha := NewRegisterRequest(role.PortalHostelAdmin, form)
	assert.Equal(t, "hostel_admin", ha.Role)
	assert.Equal(t, "ST9", ha.StaffID)
	assert.Empty(t, ha.CollegeName)

	ma := NewRegisterRequest(role.PortalMessAdmin, form)
	assert.Equal(t, "mess_admin", ma.Role)
}
