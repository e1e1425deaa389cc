package campus

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MealType is one of the three daily meals.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the meals in serving order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType is case-insensitive.
func ParseMealType(s string) (MealType, bool) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case Breakfast:
		return Breakfast, true
	case Lunch:
		return Lunch, true
	case Dinner:
		return Dinner, true
	default:
		return "", false
	}
}

// Label is the display name of the meal.
func (m MealType) Label() string {
	switch m {
	case Breakfast:
		return "Breakfast / Tiffin"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	default:
		return string(m)
	}
}

// UnmarshalJSON accepts "Breakfast" as well as "breakfast".
func (m *MealType) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseMealType(raw); ok {
		*m = parsed
		return nil
	}
	*m = MealType(raw)
	return nil
}

// Preference is a student's veg or non-veg choice for a meal.
type Preference string

const (
	Veg    Preference = "veg"
	NonVeg Preference = "non_veg"
)

// ParsePreference accepts "veg", "non_veg", "non-veg" and "nonveg".
func ParsePreference(s string) (Preference, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "veg":
		return Veg, true
	case "non_veg", "non-veg", "nonveg":
		return NonVeg, true
	default:
		return "", false
	}
}

// Label is the display spelling ("veg", "non veg").
func (p Preference) Label() string {
	return strings.ReplaceAll(string(p), "_", " ")
}

// MealChoice is one student's choice for one meal on one day.
type MealChoice struct {
	Date       time.Time  `json:"date"`
	MealType   MealType   `json:"mealType"`
	Preference Preference `json:"preference"`
}

// Validate checks the meal and preference.
func (c MealChoice) Validate() error {
	if _, ok := ParseMealType(string(c.MealType)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMealType, c.MealType)
	}
	if _, ok := ParsePreference(string(c.Preference)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, c.Preference)
	}
	return nil
}

// ChoiceBook keeps the latest choice per (calendar day, meal) in one location.
type ChoiceBook struct {
	mu   sync.RWMutex
	loc  *time.Location
	days map[string]map[MealType]Preference
}

// NewChoiceBook indexes choices by calendar day in loc (local time when nil). Later
// entries win.
func NewChoiceBook(loc *time.Location, choices ...MealChoice) *ChoiceBook {
	if loc == nil {
		loc = time.Local
	}
	b := &ChoiceBook{loc: loc, days: make(map[string]map[MealType]Preference)}
	for _, c := range choices {
		b.Set(c)
	}
	return b
}

func (b *ChoiceBook) dayKey(t time.Time) string {
	return t.In(b.loc).Format(time.DateOnly)
}

// Set records c, replacing any earlier choice for the same day and meal.
func (b *ChoiceBook) Set(c MealChoice) {
	meal, ok := ParseMealType(string(c.MealType))
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := b.dayKey(c.Date)
	day := b.days[key]
	if day == nil {
		day = make(map[MealType]Preference, len(MealTypes))
		b.days[key] = day
	}
	day[meal] = c.Preference
}

// Get returns the choice for meal on the day of t.
func (b *ChoiceBook) Get(t time.Time, meal MealType) (Preference, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p, ok := b.days[b.dayKey(t)][meal]
	return p, ok
}

// Day returns a copy of the choices on the day of t.
func (b *ChoiceBook) Day(t time.Time) map[MealType]Preference {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[MealType]Preference, len(MealTypes))
	for m, p := range b.days[b.dayKey(t)] {
		out[m] = p
	}
	return out
}

// MealStat is today's headcount for one meal.
type MealStat struct {
	MealType MealType `json:"_id"`
	Veg      int      `json:"veg"`
	NonVeg   int      `json:"nonVeg"`
}

// Total is the combined headcount.
func (s MealStat) Total() int {
	return s.Veg + s.NonVeg
}

// MealStats is the today's-headcount response. Meals nobody chose are absent.
type MealStats []MealStat

// For returns the headcount of meal, zero when the backend reported none.
func (s MealStats) For(meal MealType) MealStat {
	for _, st := range s {
		if st.MealType == meal {
			return st
		}
	}
	return MealStat{MealType: meal}
}
