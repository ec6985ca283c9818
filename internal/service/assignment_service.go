package service

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// AssignmentService links users to habits.
type AssignmentService struct {
	base
}

func NewAssignmentService(db *sqlx.DB, logger *log.Logger) *AssignmentService {
	return &AssignmentService{base: newBase(db, logger, "assignments")}
}

// CreateAssignment assigns a habit to a user.  Both must exist and the pair
// must not be assigned already.
func (s *AssignmentService) CreateAssignment(ctx context.Context, userID, habitID uint64) (*model.Assignment, error) {
	a := &model.Assignment{UserID: userID, HabitID: habitID, IsActive: true, CreatedAt: s.stamp()}
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.ForeignKeyExists(ctx, tx, repository.UsersTable, userID, entityUser); err != nil {
			return err
		}
		if err := validation.ForeignKeyExists(ctx, tx, repository.HabitsTable, habitID, entityHabit); err != nil {
			return err
		}
		if err := validation.PairUnique(ctx, tx, repository.AssignmentsTable, "user_id", userID, "habit_id", habitID, "Assignment"); err != nil {
			return err
		}
		return repository.NewAssignmentRepo(tx).Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("assignment created", "assignment_id", a.ID, "user_id", userID, "habit_id", habitID)
	return a, nil
}

// ListAssignments returns every assignment ordered by id.
func (s *AssignmentService) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	var out []model.Assignment
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		var err error
		out, err = repository.NewAssignmentRepo(tx).List(ctx)
		return err
	})
	return out, err
}

// ListAssignmentsByUser returns a user's assignments.  A user without
// assignments yields an empty list; an unknown user yields NotFound.
func (s *AssignmentService) ListAssignmentsByUser(ctx context.Context, userID uint64) ([]model.Assignment, error) {
	var out []model.Assignment
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.ForeignKeyExists(ctx, tx, repository.UsersTable, userID, entityUser); err != nil {
			return err
		}
		var err error
		out, err = repository.NewAssignmentRepo(tx).ListByUser(ctx, userID)
		return err
	})
	return out, err
}

// GetAssignment returns one assignment or NotFound.
func (s *AssignmentService) GetAssignment(ctx context.Context, id uint64) (*model.Assignment, error) {
	var a *model.Assignment
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		found, err := repository.NewAssignmentRepo(tx).GetByID(ctx, id)
		a, err = validation.Exists(entityAssignment, found, err)
		return err
	})
	return a, err
}

// DeleteAssignment removes an assignment and its completion records in
// one transaction.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uint64) error {
	var removed int64
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.ForeignKeyExists(ctx, tx, repository.AssignmentsTable, id, entityAssignment); err != nil {
			return err
		}
		var err error
		if removed, err = repository.NewCompletedDateRepo(tx).DeleteByAssignment(ctx, id); err != nil {
			return err
		}
		return notFoundOnNoRows(repository.NewAssignmentRepo(tx).Delete(ctx, id), entityAssignment)
	})
	if err != nil {
		return err
	}
	s.logger.Info("assignment deleted", "assignment_id", id, "completed_dates_removed", removed)
	return nil
}
