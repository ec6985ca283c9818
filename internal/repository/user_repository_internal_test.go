package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestUserClashSubject(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sqlite email", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), "Email"},
		{"sqlite username", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), "Username"},
		{"postgres email", &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "uq_users_email"`}, "Email"},
		{"postgres username", &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "uq_users_username"`}, "Username"},
		{"mysql email", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'users.uq_users_email'"}, "Email"},
		{"mysql username", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada' for key 'users.uq_users_username'"}, "Username"},
		{"mysql username value mentions email", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'users.email' for key 'users.uq_users_username'"}, "Username"},
		{"mysql username value mentions constraint", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'uq_users_email' for key 'users.uq_users_username'"}, "Username"},
		{"wrapped mysql email", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x@y.z' for key 'users.uq_users_email'"}), "Email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userClashSubject(tt.err); got != tt.want {
				t.Errorf("userClashSubject(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
