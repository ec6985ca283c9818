package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/model"
)

// HabitsTable is the table behind HabitRepo.
const HabitsTable = "habits"

// HabitClash is the subject reported when (name, time_of_day) is taken.
const HabitClash = "A habit with the same name and time of day"

const habitColumns = "id, name, time_of_day, is_active"

// HabitRepo reads and writes the habits table.
type HabitRepo struct{ db sqlx.ExtContext }

func NewHabitRepo(db sqlx.ExtContext) *HabitRepo { return &HabitRepo{db: db} }

// Create inserts h and fills in its ID.
func (r *HabitRepo) Create(ctx context.Context, h *model.Habit) error {
	const q = "INSERT INTO habits (name, time_of_day, is_active) VALUES (?, ?, ?)"
	id, err := database.InsertID(ctx, r.db, q, h.Name, h.TimeOfDay, h.IsActive)
	if err != nil {
		return constraintError("insert habit", err, HabitClash, "")
	}
	h.ID = id
	return nil
}

// GetByID fetches a habit by id.  It returns sql.ErrNoRows when absent.
func (r *HabitRepo) GetByID(ctx context.Context, id uint64) (*model.Habit, error) {
	var h model.Habit
	q := r.db.Rebind("SELECT " + habitColumns + " FROM habits WHERE id = ?")
	if err := sqlx.GetContext(ctx, r.db, &h, q, id); err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all habits ordered by id.
func (r *HabitRepo) List(ctx context.Context) ([]model.Habit, error) {
	out := []model.Habit{}
	if err := sqlx.SelectContext(ctx, r.db, &out, "SELECT "+habitColumns+" FROM habits ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return out, nil
}

// Update writes every mutable column of h.
func (r *HabitRepo) Update(ctx context.Context, h *model.Habit) error {
	q := r.db.Rebind("UPDATE habits SET name = ?, time_of_day = ?, is_active = ? WHERE id = ?")
	err := affectedOne(r.db.ExecContext(ctx, q, h.Name, h.TimeOfDay, h.IsActive, h.ID))
	if err != nil && !IsNoRows(err) {
		return constraintError("update habit", err, HabitClash, "")
	}
	return err
}

// Delete removes a habit; assignments and completions cascade in storage.
func (r *HabitRepo) Delete(ctx context.Context, id uint64) error {
	err := affectedOne(r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM habits WHERE id = ?"), id))
	if err != nil && !IsNoRows(err) {
		return fmt.Errorf("delete habit: %w", err)
	}
	return err
}
