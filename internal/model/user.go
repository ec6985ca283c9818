package model

import "time"

// User represents an application user record as stored in the
// `users` table.  The password hash is never serialized; handlers
// receive the plaintext password only on input.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	FirstName    – given name.
//	LastName     – family name.
//	Username     – unique login handle.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	IsActive     – whether the account is active (default true).
//	CreatedAt    – timestamp of creation (UTC).
type User struct {
	ID           uint64    `db:"id" json:"id"`                 // users.id
	FirstName    string    `db:"first_name" json:"first_name"` // users.first_name
	LastName     string    `db:"last_name" json:"last_name"`   // users.last_name
	Username     string    `db:"username" json:"username"`     // users.username
	Email        string    `db:"email" json:"email"`           // users.email
	PasswordHash string    `db:"password" json:"-"`            // users.password
	IsActive     bool      `db:"is_active" json:"is_active"`   // users.is_active
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // users.created_at
}

// NewUser carries the input needed to register a user.
type NewUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserUpdate lists the fields an update may change.  Nil means "leave as is".
type UserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	IsActive  *bool   `json:"is_active"`
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Username == nil &&
		u.Email == nil && u.Password == nil && u.IsActive == nil
}
