package campus

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Weekdays are the menu days in upload order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Dish is the veg and non-veg offering of one meal.
type Dish struct {
	Veg    string `json:"veg" yaml:"veg"`
	NonVeg string `json:"nonVeg" yaml:"non_veg"`
}

// DayMenu is one day of the weekly menu.
type DayMenu struct {
	Day       string `json:"day" yaml:"day"`
	Breakfast Dish   `json:"breakfast" yaml:"breakfast"`
	Lunch     Dish   `json:"lunch" yaml:"lunch"`
	Dinner    Dish   `json:"dinner" yaml:"dinner"`
}

// Meal returns the dish served at meal.
func (d DayMenu) Meal(meal MealType) Dish {
	switch meal {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	default:
		return Dish{}
	}
}

// WeeklySchedule is the mess menu for one week.
type WeeklySchedule struct {
	// WeekStartDate is a calendar date, YYYY-MM-DD.
	WeekStartDate string    `json:"weekStartDate" yaml:"week_start_date"`
	Menu          []DayMenu `json:"menu" yaml:"menu"`
}

// NewWeeklySchedule returns an empty menu for the week starting at weekStart.
func NewWeeklySchedule(weekStart string) WeeklySchedule {
	menu := make([]DayMenu, len(Weekdays))
	for i, day := range Weekdays {
		menu[i] = DayMenu{Day: day}
	}
	return WeeklySchedule{WeekStartDate: weekStart, Menu: menu}
}

// Validate requires a week start date and seven days, Monday first.
func (w WeeklySchedule) Validate() error {
	if strings.TrimSpace(w.WeekStartDate) == "" {
		return ErrWeekStartRequired
	}
	if _, err := w.Start(); err != nil {
		return fmt.Errorf("%w: week start %q: %v", ErrInvalidSchedule, w.WeekStartDate, err)
	}
	if len(w.Menu) != len(Weekdays) {
		return fmt.Errorf("%w: %d days, want %d", ErrInvalidSchedule, len(w.Menu), len(Weekdays))
	}
	for i, d := range w.Menu {
		if !strings.EqualFold(d.Day, Weekdays[i]) {
			return fmt.Errorf("%w: day %d is %q, want %s", ErrInvalidSchedule, i+1, d.Day, Weekdays[i])
		}
	}
	return nil
}

// Start parses the week start date. Accepts a bare date or an RFC 3339 timestamp.
func (w WeeklySchedule) Start() (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, w.WeekStartDate); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, w.WeekStartDate)
}

// On returns the menu for the weekday of t.
func (w WeeklySchedule) On(t time.Time) (DayMenu, bool) {
	name := t.Weekday().String()
	for _, d := range w.Menu {
		if strings.EqualFold(d.Day, name) {
			return d, true
		}
	}
	return DayMenu{}, false
}

// LoadSchedule decodes a YAML schedule file. Days left out of the file are filled in
// empty; the result still has to pass [WeeklySchedule.Validate].
func LoadSchedule(r io.Reader) (WeeklySchedule, error) {
	var w WeeklySchedule
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return WeeklySchedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	full := NewWeeklySchedule(w.WeekStartDate)
	for _, d := range w.Menu {
		placed := false
		for i, day := range Weekdays {
			if strings.EqualFold(d.Day, day) {
				d.Day = day
				full.Menu[i] = d
				placed = true
				break
			}
		}
		if !placed {
			return WeeklySchedule{}, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, d.Day)
		}
	}
	return full, nil
}
