package model

// CompletedDate records that an assignment was fulfilled on a given day.
// The pair (AssignmentID, Date) is unique.
type CompletedDate struct {
	ID           uint64 `db:"id" json:"id"`                       // completed_dates.id
	AssignmentID uint64 `db:"assignment_id" json:"assignment_id"` // completed_dates.assignment_id
	Date         Date   `db:"completed_on" json:"completed_date"` // completed_dates.completed_on
}
