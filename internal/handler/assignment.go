package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
)

// AssignmentService is the part of service.AssignmentService the handlers use.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, userID, habitID uint64) (*model.Assignment, error)
	ListAssignments(ctx context.Context) ([]model.Assignment, error)
	ListAssignmentsByUser(ctx context.Context, userID uint64) ([]model.Assignment, error)
	GetAssignment(ctx context.Context, id uint64) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, id uint64) error
}

// AssignmentHandler serves /v1/assignments and /v1/users/:id/assignments.
type AssignmentHandler struct {
	base
	svc AssignmentService
}

func NewAssignmentHandler(svc AssignmentService, logger *log.Logger, timeout time.Duration) *AssignmentHandler {
	return &AssignmentHandler{base: newBase(logger, timeout), svc: svc}
}

// Create handles POST /v1/assignments.
func (h *AssignmentHandler) Create(c echo.Context) error {
	var body struct {
		UserID  uint64 `json:"user_id"`
		HabitID uint64 `json:"habit_id"`
	}
	if err := bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	if err := checkID("user_id", body.UserID); err != nil {
		return h.writeError(c, err)
	}
	if err := checkID("habit_id", body.HabitID); err != nil {
		return h.writeError(c, err)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	a, err := h.svc.CreateAssignment(ctx, body.UserID, body.HabitID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// List handles GET /v1/assignments.
func (h *AssignmentHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.ListAssignments(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// ListByUser handles GET /v1/users/:id/assignments.
func (h *AssignmentHandler) ListByUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.ListAssignmentsByUser(ctx, userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/assignments/:id.
func (h *AssignmentHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.svc.GetAssignment(ctx, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/assignments/:id.
func (h *AssignmentHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.DeleteAssignment(ctx, id); err != nil {
		return h.writeError(c, err)
	}
	return message(c, "Assignment deleted successfully")
}
