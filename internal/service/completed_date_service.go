package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/queue"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// EventPublisher delivers domain events.  queue.RabbitPublisher and
// queue.NoopPublisher satisfy it.
type EventPublisher interface {
	PublishCompletionRecorded(ctx context.Context, evt queue.CompletionRecordedEvent) error
}

const publishTimeout = 5 * time.Second

// CompletedDateService records the days on which assignments were fulfilled.
type CompletedDateService struct {
	base
	events EventPublisher
}

func NewCompletedDateService(db *sqlx.DB, events EventPublisher, logger *log.Logger) *CompletedDateService {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	return &CompletedDateService{base: newBase(db, logger, "completed_dates"), events: events}
}

// CreateCompletedDate marks assignmentID as done on date.  A zero date
// means today (UTC).  The assignment must exist and the day must not be
// marked yet.  A completion.recorded event follows a successful commit;
// a publish failure is logged and does not fail the call.
func (s *CompletedDateService) CreateCompletedDate(ctx context.Context, assignmentID uint64, date model.Date) (*model.CompletedDate, error) {
	if date.IsZero() {
		date = model.DateOf(s.now().UTC())
	}

	cd := &model.CompletedDate{AssignmentID: assignmentID, Date: date}
	var a *model.Assignment
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		found, err := repository.NewAssignmentRepo(tx).GetByID(ctx, assignmentID)
		if a, err = validation.Exists(entityAssignment, found, err); err != nil {
			return err
		}
		if err := validation.PairUnique(ctx, tx, repository.CompletedDatesTable, "assignment_id", assignmentID, "completed_on", date.String(), "Completed date"); err != nil {
			return err
		}
		return repository.NewCompletedDateRepo(tx).Create(ctx, cd)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("completion recorded", "completed_date_id", cd.ID, "assignment_id", assignmentID, "date", date)

	s.publish(ctx, queue.CompletionRecordedEvent{
		Type:            queue.CompletionRecordedType,
		CompletedDateID: cd.ID,
		AssignmentID:    a.ID,
		UserID:          a.UserID,
		HabitID:         a.HabitID,
		CompletedDate:   date.String(),
		RecordedAt:      s.now().UTC(),
	})
	return cd, nil
}

func (s *CompletedDateService) publish(ctx context.Context, evt queue.CompletionRecordedEvent) {
	// the request may already be near its deadline; the write is committed
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.PublishCompletionRecorded(ctx, evt); err != nil {
		s.logger.Warn("completion event not published", "completed_date_id", evt.CompletedDateID, "err", err)
	}
}

// ListCompletedDates returns every completion ordered by id.
func (s *CompletedDateService) ListCompletedDates(ctx context.Context) ([]model.CompletedDate, error) {
	var out []model.CompletedDate
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		var err error
		out, err = repository.NewCompletedDateRepo(tx).List(ctx)
		return err
	})
	return out, err
}

// ListCompletedDatesByAssignment returns the completions of one assignment.
// An unknown assignment yields NotFound.
func (s *CompletedDateService) ListCompletedDatesByAssignment(ctx context.Context, assignmentID uint64) ([]model.CompletedDate, error) {
	var out []model.CompletedDate
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.ForeignKeyExists(ctx, tx, repository.AssignmentsTable, assignmentID, entityAssignment); err != nil {
			return err
		}
		var err error
		out, err = repository.NewCompletedDateRepo(tx).ListByAssignment(ctx, assignmentID)
		return err
	})
	return out, err
}

// GetCompletedDate returns one completion or NotFound.
func (s *CompletedDateService) GetCompletedDate(ctx context.Context, id uint64) (*model.CompletedDate, error) {
	var cd *model.CompletedDate
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		found, err := repository.NewCompletedDateRepo(tx).GetByID(ctx, id)
		cd, err = validation.Exists(entityCompletedDate, found, err)
		return err
	})
	return cd, err
}

// DeleteCompletedDate removes one completion.
func (s *CompletedDateService) DeleteCompletedDate(ctx context.Context, id uint64) error {
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		return notFoundOnNoRows(repository.NewCompletedDateRepo(tx).Delete(ctx, id), entityCompletedDate)
	})
	if err != nil {
		return err
	}
	s.logger.Info("completion removed", "completed_date_id", id)
	return nil
}
