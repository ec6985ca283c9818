package model

import "time"

// Assignment links one user to one habit they have taken on.
// It corresponds to a row in the `assignments` table; the pair
// (UserID, HabitID) is unique.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – the user carrying the habit.
//	HabitID   – the habit assigned.
//	IsActive  – whether the assignment is active (default true).
//	CreatedAt – timestamp when the assignment was created.
type Assignment struct {
	ID        uint64    `db:"id" json:"id"`                 // assignments.id
	UserID    uint64    `db:"user_id" json:"user_id"`       // assignments.user_id
	HabitID   uint64    `db:"habit_id" json:"habit_id"`     // assignments.habit_id
	IsActive  bool      `db:"is_active" json:"is_active"`   // assignments.is_active
	CreatedAt time.Time `db:"created_at" json:"created_at"` // assignments.created_at
}
