// Package service implements the entity services.  Every operation runs in
// one transaction: pre-flight validation reads, then repository writes, then
// commit.  Typed errors from the validation package pass through unchanged.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// Entity names used in NotFound errors.
const (
	entityUser          = "User"
	entityHabit         = "Habit"
	entityAssignment    = "Assignment"
	entityCompletedDate = "Completed date"
)

// base carries what every service needs.
type base struct {
	db     *sqlx.DB
	logger *log.Logger
	now    func() time.Time
}

func newBase(db *sqlx.DB, logger *log.Logger, component string) base {
	return base{
		db:     db,
		logger: logger.With("component", component),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (b base) tx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return database.WithTx(ctx, b.db, fn)
}

// stamp is the creation time written to storage.  DATETIME columns keep
// whole seconds only, so the value is truncated up front.
func (b base) stamp() time.Time {
	return b.now().UTC().Truncate(time.Second)
}

// notFoundOnNoRows maps a missing-row result from a delete to NotFound.
func notFoundOnNoRows(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return validation.NotFound(entity)
	}
	return err
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validation.Invalid(field, "is required")
	}
	return nil
}
