// Package handler contains the echo handlers.  Handlers parse input, call a
// service under a request timeout and map typed errors to HTTP statuses.
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/validation"
)

// DefaultTimeout bounds each request's service call.
const DefaultTimeout = 5 * time.Second

// base carries what every handler needs.
type base struct {
	logger  *log.Logger
	timeout time.Duration
}

func newBase(logger *log.Logger, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return base{logger: logger, timeout: timeout}
}

func (b base) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), b.timeout)
}

// writeError is the only place errors become statuses.
func (b base) writeError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, validation.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, validation.ErrAlreadyExists):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, validation.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	b.logger.Error("request failed", "path", c.Path(), "request_id", requestID(c), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// maxID is the largest id every driver can bind; database/sql refuses
// uint64 arguments with the high bit set.
const maxID = math.MaxInt64

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 63)
	if err != nil || id == 0 {
		return 0, validation.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// checkID validates an id taken from a request body.
func checkID(field string, id uint64) error {
	switch {
	case id == 0:
		return validation.Invalid(field, "is required")
	case id > maxID:
		return validation.Invalid(field, "must be a positive integer")
	}
	return nil
}

// bind decodes the request body; a malformed body is an InvalidError.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		reason := "invalid request body"
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Internal != nil {
			reason = reason + ": " + he.Internal.Error()
		}
		return validation.Invalid("", reason)
	}
	return nil
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
