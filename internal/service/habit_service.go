package service

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// HabitService manages habits.
type HabitService struct {
	base
}

func NewHabitService(db *sqlx.DB, logger *log.Logger) *HabitService {
	return &HabitService{base: newBase(db, logger, "habits")}
}

// CreateHabit stores a habit.  (name, time_of_day) must be unused.
func (s *HabitService) CreateHabit(ctx context.Context, in model.NewHabit) (*model.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if err := required("name", name); err != nil {
		return nil, err
	}
	tod, err := model.ParseTimeOfDay(string(in.TimeOfDay))
	if err != nil {
		return nil, validation.Invalid("time_of_day", err.Error())
	}

	h := &model.Habit{Name: name, TimeOfDay: tod, IsActive: true}
	err = s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.PairUnique(ctx, tx, repository.HabitsTable, "name", h.Name, "time_of_day", h.TimeOfDay, repository.HabitClash); err != nil {
			return err
		}
		return repository.NewHabitRepo(tx).Create(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("habit created", "habit_id", h.ID, "name", h.Name, "time_of_day", h.TimeOfDay)
	return h, nil
}

// ListHabits returns every habit ordered by id.
func (s *HabitService) ListHabits(ctx context.Context) ([]model.Habit, error) {
	var out []model.Habit
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		var err error
		out, err = repository.NewHabitRepo(tx).List(ctx)
		return err
	})
	return out, err
}

// GetHabit returns one habit or NotFound.
func (s *HabitService) GetHabit(ctx context.Context, id uint64) (*model.Habit, error) {
	var h *model.Habit
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		found, err := repository.NewHabitRepo(tx).GetByID(ctx, id)
		h, err = validation.Exists(entityHabit, found, err)
		return err
	})
	return h, err
}

// UpdateHabit applies the supplied fields.  When name or time of day
// changes, the merged pair is checked for a clash first.
func (s *HabitService) UpdateHabit(ctx context.Context, id uint64, upd model.HabitUpdate) (*model.Habit, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := required("name", name); err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if upd.TimeOfDay != nil {
		tod, err := model.ParseTimeOfDay(string(*upd.TimeOfDay))
		if err != nil {
			return nil, validation.Invalid("time_of_day", err.Error())
		}
		upd.TimeOfDay = &tod
	}

	var h *model.Habit
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		repo := repository.NewHabitRepo(tx)
		found, err := repo.GetByID(ctx, id)
		if h, err = validation.Exists(entityHabit, found, err); err != nil {
			return err
		}

		name, tod := h.Name, h.TimeOfDay
		if upd.Name != nil {
			name = *upd.Name
		}
		if upd.TimeOfDay != nil {
			tod = *upd.TimeOfDay
		}
		if name != h.Name || tod != h.TimeOfDay {
			if err := validation.PairUnique(ctx, tx, repository.HabitsTable, "name", name, "time_of_day", tod, repository.HabitClash); err != nil {
				return err
			}
		}
		h.Name, h.TimeOfDay = name, tod
		if upd.IsActive != nil {
			h.IsActive = *upd.IsActive
		}
		return repo.Update(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("habit updated", "habit_id", h.ID)
	return h, nil
}

// DeleteHabit removes a habit together with its assignments and completions.
func (s *HabitService) DeleteHabit(ctx context.Context, id uint64) error {
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		return notFoundOnNoRows(repository.NewHabitRepo(tx).Delete(ctx, id), entityHabit)
	})
	if err != nil {
		return err
	}
	s.logger.Info("habit deleted", "habit_id", id)
	return nil
}
