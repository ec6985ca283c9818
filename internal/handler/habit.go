package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// HabitService is the part of service.HabitService the handlers use.
type HabitService interface {
	CreateHabit(ctx context.Context, in model.NewHabit) (*model.Habit, error)
	ListHabits(ctx context.Context) ([]model.Habit, error)
	GetHabit(ctx context.Context, id uint64) (*model.Habit, error)
	UpdateHabit(ctx context.Context, id uint64, upd model.HabitUpdate) (*model.Habit, error)
	DeleteHabit(ctx context.Context, id uint64) error
}

// HabitHandler serves /v1/habits.
type HabitHandler struct {
	base
	svc HabitService
}

func NewHabitHandler(svc HabitService, logger *log.Logger, timeout time.Duration) *HabitHandler {
	return &HabitHandler{base: newBase(logger, timeout), svc: svc}
}

func checkTimeOfDay(t model.TimeOfDay) (model.TimeOfDay, error) {
	tod, err := model.ParseTimeOfDay(string(t))
	if err != nil {
		return "", validation.Invalid("time_of_day", err.Error())
	}
	return tod, nil
}

// Create handles POST /v1/habits.
func (h *HabitHandler) Create(c echo.Context) error {
	var in model.NewHabit
	if err := bind(c, &in); err != nil {
		return h.writeError(c, err)
	}
	tod, err := checkTimeOfDay(in.TimeOfDay)
	if err != nil {
		return h.writeError(c, err)
	}
	in.TimeOfDay = tod

	ctx, cancel := h.ctx(c)
	defer cancel()
	habit, err := h.svc.CreateHabit(ctx, in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, habit)
}

// List handles GET /v1/habits.
func (h *HabitHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	habits, err := h.svc.ListHabits(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, habits)
}

// Get handles GET /v1/habits/:id.
func (h *HabitHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	habit, err := h.svc.GetHabit(ctx, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, habit)
}

// Update handles PUT/PATCH /v1/habits/:id.
func (h *HabitHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var upd model.HabitUpdate
	if err := bind(c, &upd); err != nil {
		return h.writeError(c, err)
	}
	if upd.TimeOfDay != nil {
		tod, err := checkTimeOfDay(*upd.TimeOfDay)
		if err != nil {
			return h.writeError(c, err)
		}
		upd.TimeOfDay = &tod
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	habit, err := h.svc.UpdateHabit(ctx, id, upd)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, habit)
}

// Delete handles DELETE /v1/habits/:id.
func (h *HabitHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.DeleteHabit(ctx, id); err != nil {
		return h.writeError(c, err)
	}
	return message(c, "Habit deleted successfully")
}
