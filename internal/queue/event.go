// Package queue defines message payloads exchanged over the message broker
// and the publishers that send them.
package queue

import "time"

// CompletionRecordedType is the routing name of CompletionRecordedEvent.
const CompletionRecordedType = "completion.recorded"

// CompletionRecordedEvent is published after a completed date is stored.
// It carries enough context for downstream consumers (streaks, reminders,
// analytics) to act without querying the primary database.
type CompletionRecordedEvent struct {
	Type            string    `json:"type"`
	CompletedDateID uint64    `json:"completed_date_id"`
	AssignmentID    uint64    `json:"assignment_id"`
	UserID          uint64    `json:"user_id"`
	HabitID         uint64    `json:"habit_id"`
	CompletedDate   string    `json:"completed_date"` // YYYY-MM-DD
	RecordedAt      time.Time `json:"recorded_at"`
}
