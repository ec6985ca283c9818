package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/model"
)

// CompletedDatesTable is the table behind CompletedDateRepo.
const CompletedDatesTable = "completed_dates"

const completedDateColumns = "id, assignment_id, completed_on"

// CompletedDateRepo reads and writes the completed_dates table.
type CompletedDateRepo struct{ db sqlx.ExtContext }

func NewCompletedDateRepo(db sqlx.ExtContext) *CompletedDateRepo {
	return &CompletedDateRepo{db: db}
}

// Create inserts cd and fills in its ID.
func (r *CompletedDateRepo) Create(ctx context.Context, cd *model.CompletedDate) error {
	const q = "INSERT INTO completed_dates (assignment_id, completed_on) VALUES (?, ?)"
	id, err := database.InsertID(ctx, r.db, q, cd.AssignmentID, cd.Date)
	if err != nil {
		return constraintError("insert completed date", err, "Completed date", "Assignment")
	}
	cd.ID = id
	return nil
}

// GetByID fetches a completion by id.  It returns sql.ErrNoRows when absent.
func (r *CompletedDateRepo) GetByID(ctx context.Context, id uint64) (*model.CompletedDate, error) {
	var cd model.CompletedDate
	q := r.db.Rebind("SELECT " + completedDateColumns + " FROM completed_dates WHERE id = ?")
	if err := sqlx.GetContext(ctx, r.db, &cd, q, id); err != nil {
		return nil, err
	}
	return &cd, nil
}

// List returns all completions ordered by id.
func (r *CompletedDateRepo) List(ctx context.Context) ([]model.CompletedDate, error) {
	out := []model.CompletedDate{}
	if err := sqlx.SelectContext(ctx, r.db, &out, "SELECT "+completedDateColumns+" FROM completed_dates ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list completed dates: %w", err)
	}
	return out, nil
}

// ListByAssignment returns the completions of one assignment, oldest day first.
func (r *CompletedDateRepo) ListByAssignment(ctx context.Context, assignmentID uint64) ([]model.CompletedDate, error) {
	out := []model.CompletedDate{}
	q := r.db.Rebind("SELECT " + completedDateColumns + " FROM completed_dates WHERE assignment_id = ? ORDER BY completed_on, id")
	if err := sqlx.SelectContext(ctx, r.db, &out, q, assignmentID); err != nil {
		return nil, fmt.Errorf("list completed dates by assignment: %w", err)
	}
	return out, nil
}

// Delete removes one completion row.
func (r *CompletedDateRepo) Delete(ctx context.Context, id uint64) error {
	err := affectedOne(r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM completed_dates WHERE id = ?"), id))
	if err != nil && !IsNoRows(err) {
		return fmt.Errorf("delete completed date: %w", err)
	}
	return err
}

// DeleteByAssignment removes every completion of an assignment and
// returns how many rows went.
func (r *CompletedDateRepo) DeleteByAssignment(ctx context.Context, assignmentID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM completed_dates WHERE assignment_id = ?"), assignmentID)
	if err != nil {
		return 0, fmt.Errorf("delete completed dates of assignment: %w", err)
	}
	return res.RowsAffected()
}
