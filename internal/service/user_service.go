package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

// UserService manages user accounts.
type UserService struct {
	base
	hasher utils.PasswordHasher
}

func NewUserService(db *sqlx.DB, hasher utils.PasswordHasher, logger *log.Logger) *UserService {
	return &UserService{base: newBase(db, logger, "users"), hasher: hasher}
}

// CreateUser registers a user.  Username and email must be unused; the
// password is stored as a bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateNewUser(in); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.stamp(),
	}
	err = s.tx(ctx, func(tx *sqlx.Tx) error {
		if err := validation.FieldUnique(ctx, tx, repository.UsersTable, "username", u.Username, "Username"); err != nil {
			return err
		}
		if err := validation.FieldUnique(ctx, tx, repository.UsersTable, "email", u.Email, "Email"); err != nil {
			return err
		}
		return repository.NewUserRepo(tx).Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		var err error
		out, err = repository.NewUserRepo(tx).List(ctx)
		return err
	})
	return out, err
}

// GetUser returns one user or NotFound.
func (s *UserService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	var u *model.User
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		found, err := repository.NewUserRepo(tx).GetByID(ctx, id)
		u, err = validation.Exists(entityUser, found, err)
		return err
	})
	return u, err
}

// UpdateUser applies the supplied fields.  Username and email are checked
// for clashes only when they change.  On any error nothing is written.
func (s *UserService) UpdateUser(ctx context.Context, id uint64, upd model.UserUpdate) (*model.User, error) {
	if err := validateUserUpdate(&upd); err != nil {
		return nil, err
	}
	var hash string
	if upd.Password != nil {
		h, err := s.hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var u *model.User
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		repo := repository.NewUserRepo(tx)
		found, err := repo.GetByID(ctx, id)
		if u, err = validation.Exists(entityUser, found, err); err != nil {
			return err
		}

		if upd.Username != nil && *upd.Username != u.Username {
			if err := validation.FieldUnique(ctx, tx, repository.UsersTable, "username", *upd.Username, "Username"); err != nil {
				return err
			}
			u.Username = *upd.Username
		}
		if upd.Email != nil && *upd.Email != u.Email {
			if err := validation.FieldUnique(ctx, tx, repository.UsersTable, "email", *upd.Email, "Email"); err != nil {
				return err
			}
			u.Email = *upd.Email
		}
		if upd.FirstName != nil {
			u.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			u.LastName = *upd.LastName
		}
		if upd.IsActive != nil {
			u.IsActive = *upd.IsActive
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		return repo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}

// DeleteUser removes a user together with their assignments and completions.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		return notFoundOnNoRows(repository.NewUserRepo(tx).Delete(ctx, id), entityUser)
	})
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *UserService) hashPassword(plain string) (string, error) {
	hash, err := s.hasher.Hash(plain)
	if utils.IsTooLong(err) {
		return "", validation.Invalid("password", "must be at most 72 bytes")
	}
	return hash, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, " <>") {
		return validation.Invalid("email", "is not a valid address")
	}
	return nil
}

func validateNewUser(in model.NewUser) error {
	for _, f := range []struct{ name, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	return validateEmail(in.Email)
}

// validateUserUpdate trims supplied fields in place and rejects blanks.
func validateUserUpdate(upd *model.UserUpdate) error {
	trim := func(field string, p *string) error {
		if p == nil {
			return nil
		}
		*p = strings.TrimSpace(*p)
		return required(field, *p)
	}
	if err := trim("first_name", upd.FirstName); err != nil {
		return err
	}
	if err := trim("last_name", upd.LastName); err != nil {
		return err
	}
	if err := trim("username", upd.Username); err != nil {
		return err
	}
	if upd.Email != nil {
		e := normalizeEmail(*upd.Email)
		upd.Email = &e
		if err := validateEmail(e); err != nil {
			return err
		}
	}
	if upd.Password != nil && *upd.Password == "" {
		return validation.Invalid("password", "is required")
	}
	return nil
}
