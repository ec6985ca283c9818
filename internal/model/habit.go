package model

import (
	"fmt"
	"strings"
)

// TimeOfDay is the slot of the day a habit is scheduled for.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// ErrInvalidTimeOfDay is returned by ParseTimeOfDay.
var ErrInvalidTimeOfDay = fmt.Errorf("time_of_day must be one of %s, %s, %s", Morning, Afternoon, Evening)

// ParseTimeOfDay normalizes s and checks it against the allowed slots.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t := TimeOfDay(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidTimeOfDay
	}
	return t, nil
}

// Valid reports whether t is one of the known slots.
func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Afternoon, Evening:
		return true
	}
	return false
}

// Habit represents a row in the `habits` table.  The pair
// (Name, TimeOfDay) is unique.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – habit name, e.g. "Exercise".
//	TimeOfDay – morning, afternoon or evening.
//	IsActive  – whether the habit is active (default true).
type Habit struct {
	ID        uint64    `db:"id" json:"id"`                   // habits.id
	Name      string    `db:"name" json:"name"`               // habits.name
	TimeOfDay TimeOfDay `db:"time_of_day" json:"time_of_day"` // habits.time_of_day
	IsActive  bool      `db:"is_active" json:"is_active"`     // habits.is_active
}

// NewHabit carries the input needed to create a habit.
type NewHabit struct {
	Name      string    `json:"name"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
}

// HabitUpdate lists the fields an update may change.
type HabitUpdate struct {
	Name      *string    `json:"name"`
	TimeOfDay *TimeOfDay `json:"time_of_day"`
	IsActive  *bool      `json:"is_active"`
}
