package validation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Exists converts the result of a single-row lookup into the entity or a
// NotFoundError tagged with entity.  sql.ErrNoRows means "absent".
func Exists[T any](entity string, v T, err error) (T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, NotFound(entity)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// FieldUnique fails with AlreadyExists when a row in table already carries
// value in field.  table and field must be constants, never user input.
func FieldUnique(ctx context.Context, q sqlx.ExtContext, table, field string, value any, subject string) error {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, field)
	return checkAbsent(ctx, q, query, subject, value)
}

// PairUnique fails with AlreadyExists when a row matches both values.
func PairUnique(ctx context.Context, q sqlx.ExtContext, table, fieldA string, valueA any, fieldB string, valueB any, subject string) error {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ? AND %s = ?", table, fieldA, fieldB)
	return checkAbsent(ctx, q, query, subject, valueA, valueB)
}

// ForeignKeyExists fails with NotFound(entity) when table has no row with id.
func ForeignKeyExists(ctx context.Context, q sqlx.ExtContext, table string, id uint64, entity string) error {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table)
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), id); err != nil {
		return fmt.Errorf("check %s exists: %w", table, err)
	}
	if n == 0 {
		return NotFound(entity)
	}
	return nil
}

func checkAbsent(ctx context.Context, q sqlx.ExtContext, query, subject string, args ...any) error {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("check %s unique: %w", subject, err)
	}
	if n > 0 {
		return AlreadyExists(subject)
	}
	return nil
}
