package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
)

// CompletedDateService is the part of service.CompletedDateService the
// handlers use.
type CompletedDateService interface {
	CreateCompletedDate(ctx context.Context, assignmentID uint64, date model.Date) (*model.CompletedDate, error)
	ListCompletedDates(ctx context.Context) ([]model.CompletedDate, error)
	ListCompletedDatesByAssignment(ctx context.Context, assignmentID uint64) ([]model.CompletedDate, error)
	GetCompletedDate(ctx context.Context, id uint64) (*model.CompletedDate, error)
	DeleteCompletedDate(ctx context.Context, id uint64) error
}

// CompletedDateHandler serves /v1/completed-dates and
// /v1/assignments/:id/completed-dates.
type CompletedDateHandler struct {
	base
	svc CompletedDateService
}

func NewCompletedDateHandler(svc CompletedDateService, logger *log.Logger, timeout time.Duration) *CompletedDateHandler {
	return &CompletedDateHandler{base: newBase(logger, timeout), svc: svc}
}

// Create handles POST /v1/completed-dates.  completed_date is optional and
// defaults to today.
func (h *CompletedDateHandler) Create(c echo.Context) error {
	var body struct {
		AssignmentID uint64     `json:"assignment_id"`
		Date         model.Date `json:"completed_date"`
	}
	if err := bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	if err := checkID("assignment_id", body.AssignmentID); err != nil {
		return h.writeError(c, err)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	cd, err := h.svc.CreateCompletedDate(ctx, body.AssignmentID, body.Date)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cd)
}

// List handles GET /v1/completed-dates.
func (h *CompletedDateHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.ListCompletedDates(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// ListByAssignment handles GET /v1/assignments/:id/completed-dates.
func (h *CompletedDateHandler) ListByAssignment(c echo.Context) error {
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.ListCompletedDatesByAssignment(ctx, assignmentID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/completed-dates/:id.
func (h *CompletedDateHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	cd, err := h.svc.GetCompletedDate(ctx, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, cd)
}

// Delete handles DELETE /v1/completed-dates/:id.
func (h *CompletedDateHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.DeleteCompletedDate(ctx, id); err != nil {
		return h.writeError(c, err)
	}
	return message(c, "Completed date deleted successfully")
}
