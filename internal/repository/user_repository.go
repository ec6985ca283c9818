package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/model"
)

// UsersTable is the table behind UserRepo.
const UsersTable = "users"

const userColumns = "id, first_name, last_name, username, email, password, is_active, created_at"

// UserRepo reads and writes the users table.
type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and fills in its ID.  A duplicate username or email
// surfaces as validation.AlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (first_name, last_name, username, email, password, is_active, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := database.InsertID(ctx, r.db, q,
		u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt)
	if err != nil {
		return constraintError("insert user", err, userClashSubject(err), "")
	}
	u.ID = id
	return nil
}

// GetByID fetches a user by id.  It returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	q := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	if err := sqlx.GetContext(ctx, r.db, &u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	if err := sqlx.SelectContext(ctx, r.db, &out, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Update writes every mutable column of u.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	q := r.db.Rebind(`UPDATE users
	           SET first_name = ?, last_name = ?, username = ?, email = ?, password = ?, is_active = ?
	           WHERE id = ?`)
	err := affectedOne(r.db.ExecContext(ctx, q,
		u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash, u.IsActive, u.ID))
	if err != nil && !IsNoRows(err) {
		return constraintError("update user", err, userClashSubject(err), "")
	}
	return err
}

// Delete removes a user; assignments and completions cascade in storage.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	err := affectedOne(r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM users WHERE id = ?"), id))
	if err != nil && !IsNoRows(err) {
		return fmt.Errorf("delete user: %w", err)
	}
	return err
}

// userClashSubject picks the clashing column out of the driver error.
// MySQL and Postgres name the constraint (uq_users_email), SQLite names the
// column (users.email).  MySQL also echoes the duplicate value, so only the
// text after "for key" is inspected there.
func userClashSubject(err error) string {
	if err == nil {
		return "Username"
	}
	msg := err.Error()
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		msg = me.Message
		if i := strings.LastIndex(msg, "for key"); i >= 0 {
			msg = msg[i:]
		}
	}
	msg = strings.ToLower(msg)
	if strings.Contains(msg, "uq_users_email") || strings.Contains(msg, "users.email") {
		return "Email"
	}
	return "Username"
}
