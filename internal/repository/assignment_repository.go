package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/model"
)

// AssignmentsTable is the table behind AssignmentRepo.
const AssignmentsTable = "assignments"

const assignmentColumns = "id, user_id, habit_id, is_active, created_at"

// AssignmentRepo reads and writes the assignments table.
type AssignmentRepo struct{ db sqlx.ExtContext }

func NewAssignmentRepo(db sqlx.ExtContext) *AssignmentRepo { return &AssignmentRepo{db: db} }

// Create inserts a and fills in its ID.  A duplicate (user, habit) pair
// surfaces as AlreadyExists, a dangling user or habit as NotFound.
func (r *AssignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	const q = "INSERT INTO assignments (user_id, habit_id, is_active, created_at) VALUES (?, ?, ?, ?)"
	id, err := database.InsertID(ctx, r.db, q, a.UserID, a.HabitID, a.IsActive, a.CreatedAt)
	if err != nil {
		return constraintError("insert assignment", err, "Assignment", "User or habit")
	}
	a.ID = id
	return nil
}

// GetByID fetches an assignment by id.  It returns sql.ErrNoRows when absent.
func (r *AssignmentRepo) GetByID(ctx context.Context, id uint64) (*model.Assignment, error) {
	var a model.Assignment
	q := r.db.Rebind("SELECT " + assignmentColumns + " FROM assignments WHERE id = ?")
	if err := sqlx.GetContext(ctx, r.db, &a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all assignments ordered by id.
func (r *AssignmentRepo) List(ctx context.Context) ([]model.Assignment, error) {
	out := []model.Assignment{}
	if err := sqlx.SelectContext(ctx, r.db, &out, "SELECT "+assignmentColumns+" FROM assignments ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// ListByUser returns the assignments of one user ordered by id.
func (r *AssignmentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Assignment, error) {
	out := []model.Assignment{}
	q := r.db.Rebind("SELECT " + assignmentColumns + " FROM assignments WHERE user_id = ? ORDER BY id")
	if err := sqlx.SelectContext(ctx, r.db, &out, q, userID); err != nil {
		return nil, fmt.Errorf("list assignments by user: %w", err)
	}
	return out, nil
}

// Delete removes one assignment row.
func (r *AssignmentRepo) Delete(ctx context.Context, id uint64) error {
	err := affectedOne(r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM assignments WHERE id = ?"), id))
	if err != nil && !IsNoRows(err) {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return err
}
