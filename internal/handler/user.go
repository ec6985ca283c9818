package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
)

// UserService is the part of service.UserService the handlers use.
type UserService interface {
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	UpdateUser(ctx context.Context, id uint64, upd model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// UserHandler serves /v1/users.
type UserHandler struct {
	base
	svc UserService
}

func NewUserHandler(svc UserService, logger *log.Logger, timeout time.Duration) *UserHandler {
	return &UserHandler{base: newBase(logger, timeout), svc: svc}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
	var in model.NewUser
	if err := bind(c, &in); err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.svc.CreateUser(ctx, in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.svc.GetUser(ctx, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT/PATCH /v1/users/:id.  Only the fields present in
// the body change.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var upd model.UserUpdate
	if err := bind(c, &upd); err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.svc.UpdateUser(ctx, id, upd)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /v1/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.DeleteUser(ctx, id); err != nil {
		return h.writeError(c, err)
	}
	return message(c, "User deleted successfully")
}
