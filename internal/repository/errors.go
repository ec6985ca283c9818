// Package repository contains data access logic separated from services and
// HTTP handlers.  Every repository runs its SQL against a sqlx handle that
// is either the pool or a transaction; statements are written with ?
// placeholders and rebound for the active driver.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// constraintError maps a storage constraint failure onto the typed
// validation errors.  A unique violation becomes AlreadyExists(subject) and
// a foreign key violation becomes NotFound(ref).  Anything else is wrapped
// with op.
func constraintError(op string, err error, subject, ref string) error {
	switch {
	case database.IsUniqueViolation(err):
		return validation.AlreadyExists(subject)
	case database.IsForeignKeyViolation(err) && ref != "":
		return validation.NotFound(ref)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affectedOne turns a zero-row UPDATE or DELETE into sql.ErrNoRows.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsNoRows reports whether err means the targeted row is missing.
func IsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
