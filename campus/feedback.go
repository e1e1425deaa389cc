package campus

import (
	"fmt"
	"time"
)

// MaxRating is the top of the star scale.
const MaxRating = 5

// Feedback is a student's rating of a meal.
type Feedback struct {
	MealType MealType `json:"mealType"`
	Rating   int      `json:"rating"`
	Comment  string   `json:"comment"`
}

// Validate rejects a missing rating and anything outside 1..5.
func (f Feedback) Validate() error {
	if _, ok := ParseMealType(string(f.MealType)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMealType, f.MealType)
	}
	if f.Rating == 0 {
		return ErrRatingRequired
	}
	if f.Rating < 1 || f.Rating > MaxRating {
		return fmt.Errorf("%w: %d", ErrInvalidRating, f.Rating)
	}
	return nil
}

// MealWindow is the part of the day during which a meal's feedback is asked for. Both
// bounds are offsets from local midnight and inclusive.
type MealWindow struct {
	Meal  MealType
	Start time.Duration
	End   time.Duration
}

// Contains reports whether t falls inside w, comparing minutes since midnight.
func (w MealWindow) Contains(t time.Time) bool {
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return offset >= w.Start && offset <= w.End
}

// DefaultMealWindows are breakfast 08:00-10:30, lunch 12:30-15:00 and dinner 19:30-22:00.
var DefaultMealWindows = []MealWindow{
	{Meal: Breakfast, Start: 8 * time.Hour, End: 10*time.Hour + 30*time.Minute},
	{Meal: Lunch, Start: 12*time.Hour + 30*time.Minute, End: 15 * time.Hour},
	{Meal: Dinner, Start: 19*time.Hour + 30*time.Minute, End: 22 * time.Hour},
}

// ActiveMeal returns the first window containing t.
func ActiveMeal(t time.Time, windows []MealWindow) (MealType, bool) {
	for _, w := range windows {
		if w.Contains(t) {
			return w.Meal, true
		}
	}
	return "", false
}
