package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/habit-tracker/internal/database/dbtest"
	"github.com/iliyamo/habit-tracker/internal/logger"
	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/queue"
	"github.com/iliyamo/habit-tracker/internal/utils"
	"github.com/iliyamo/habit-tracker/internal/validation"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.CompletionRecordedEvent
	err    error
}

func (p *recordingPublisher) PublishCompletionRecorded(_ context.Context, evt queue.CompletionRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type services struct {
	users       *UserService
	habits      *HabitService
	assignments *AssignmentService
	completions *CompletedDateService
	events      *recordingPublisher
}

func newServices(t *testing.T) services {
	t.Helper()
	db := dbtest.Open(t)
	l := logger.Discard()
	pub := &recordingPublisher{}
	return services{
		users:       NewUserService(db, utils.NewPasswordHasher(bcrypt.MinCost), l),
		habits:      NewHabitService(db, l),
		assignments: NewAssignmentService(db, l),
		completions: NewCompletedDateService(db, pub, l),
		events:      pub,
	}
}

func newUserInput(username, email string) model.NewUser {
	return model.NewUser{FirstName: "Ada", LastName: "Lovelace", Username: username, Email: email, Password: "s3cret"}
}

func strPtr(s string) *string { return &s }

func mustUser(t *testing.T, s services, username, email string) *model.User {
	t.Helper()
	u, err := s.users.CreateUser(context.Background(), newUserInput(username, email))
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", username, err)
	}
	return u
}

func mustHabit(t *testing.T, s services, name string, tod model.TimeOfDay) *model.Habit {
	t.Helper()
	h, err := s.habits.CreateHabit(context.Background(), model.NewHabit{Name: name, TimeOfDay: tod})
	if err != nil {
		t.Fatalf("CreateHabit(%s, %s) error = %v", name, tod, err)
	}
	return h
}

func mustAssignment(t *testing.T, s services, userID, habitID uint64) *model.Assignment {
	t.Helper()
	a, err := s.assignments.CreateAssignment(context.Background(), userID, habitID)
	if err != nil {
		t.Fatalf("CreateAssignment(%d, %d) error = %v", userID, habitID, err)
	}
	return a
}

func TestCreateUser(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	u := mustUser(t, s, "ada", "Ada@Example.com")
	if u.ID == 0 {
		t.Error("ID = 0, want non-zero")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Errorf("PasswordHash = %q, want a hash", u.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) != nil {
		t.Error("stored hash does not match the password")
	}
	if !u.IsActive {
		t.Error("IsActive = false, want true")
	}
	if u.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lower-cased", u.Email)
	}

	tests := []struct {
		name    string
		in      model.NewUser
		subject string
	}{
		{"reused username", newUserInput("ada", "other@example.com"), "Username"},
		{"reused email", newUserInput("grace", "ada@example.com"), "Email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.users.CreateUser(ctx, tt.in)
			var ae *validation.AlreadyExistsError
			if !errors.As(err, &ae) || ae.Subject != tt.subject {
				t.Errorf("CreateUser() error = %v, want AlreadyExists(%s)", err, tt.subject)
			}
		})
	}

	if _, err := s.users.CreateUser(ctx, newUserInput("grace", "grace@example.com")); err != nil {
		t.Errorf("CreateUser() with fresh values error = %v", err)
	}
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	s := newServices(t)
	tests := []struct {
		name string
		in   model.NewUser
	}{
		{"missing username", newUserInput("  ", "a@example.com")},
		{"missing password", model.NewUser{FirstName: "A", LastName: "B", Username: "ab", Email: "a@example.com"}},
		{"bad email", newUserInput("ab", "not-an-email")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.users.CreateUser(context.Background(), tt.in); !errors.Is(err, validation.ErrInvalid) {
				t.Errorf("CreateUser() error = %v, want Invalid", err)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ada := mustUser(t, s, "ada", "ada@example.com")
	mustUser(t, s, "grace", "grace@example.com")

	t.Run("email owned by another user", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{
			FirstName: strPtr("Augusta"),
			Email:     strPtr("grace@example.com"),
		})
		if !errors.Is(err, validation.ErrAlreadyExists) {
			t.Fatalf("UpdateUser() error = %v, want AlreadyExists", err)
		}
		got, err := s.users.GetUser(ctx, ada.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Email != "ada@example.com" || got.FirstName != "Ada" {
			t.Errorf("record changed after failed update: %+v", got)
		}
	})

	t.Run("username owned by another user", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{
			LastName: strPtr("Byron"),
			Username: strPtr("grace"),
		})
		if !errors.Is(err, validation.ErrAlreadyExists) {
			t.Fatalf("UpdateUser() error = %v, want AlreadyExists", err)
		}
		if !strings.HasPrefix(err.Error(), "Username already exists") {
			t.Errorf("error = %q, want the username clash message", err)
		}
		got, err := s.users.GetUser(ctx, ada.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Username != "ada" || got.LastName != "Lovelace" {
			t.Errorf("record changed after failed update: %+v", got)
		}
	})

	t.Run("case-only rename of own username", func(t *testing.T) {
		got, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{Username: strPtr("Ada")})
		if err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}
		if got.Username != "Ada" {
			t.Errorf("Username = %q, want Ada", got.Username)
		}
		if _, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{Username: strPtr("ada")}); err != nil {
			t.Fatalf("UpdateUser() back to ada error = %v", err)
		}
	})

	t.Run("same email is not a clash", func(t *testing.T) {
		got, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{Email: strPtr("ada@example.com"), LastName: strPtr("King")})
		if err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}
		if got.LastName != "King" {
			t.Errorf("LastName = %q, want King", got.LastName)
		}
	})

	t.Run("password and active flag", func(t *testing.T) {
		inactive := false
		got, err := s.users.UpdateUser(ctx, ada.ID, model.UserUpdate{Password: strPtr("n3w"), IsActive: &inactive})
		if err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}
		if got.IsActive {
			t.Error("IsActive = true, want false")
		}
		if bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("n3w")) != nil {
			t.Error("password was not re-hashed")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.users.UpdateUser(ctx, 999, model.UserUpdate{FirstName: strPtr("X")})
		if !errors.Is(err, validation.ErrNotFound) {
			t.Errorf("UpdateUser() error = %v, want NotFound", err)
		}
	})
}

func TestCreateHabit(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	mustHabit(t, s, "Exercise", model.Morning)
	mustHabit(t, s, "Exercise", model.Afternoon)

	_, err := s.habits.CreateHabit(ctx, model.NewHabit{Name: "Exercise", TimeOfDay: model.Morning})
	if !errors.Is(err, validation.ErrAlreadyExists) {
		t.Errorf("duplicate pair error = %v, want AlreadyExists", err)
	}

	_, err = s.habits.CreateHabit(ctx, model.NewHabit{Name: "Exercise", TimeOfDay: "midnight"})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("bad time of day error = %v, want Invalid", err)
	}
}

func TestUpdateHabit(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	h := mustHabit(t, s, "Exercise", model.Morning)
	mustHabit(t, s, "Exercise", model.Evening)

	evening := model.Evening
	if _, err := s.habits.UpdateHabit(ctx, h.ID, model.HabitUpdate{TimeOfDay: &evening}); !errors.Is(err, validation.ErrAlreadyExists) {
		t.Errorf("merged pair clash error = %v, want AlreadyExists", err)
	}

	got, err := s.habits.UpdateHabit(ctx, h.ID, model.HabitUpdate{Name: strPtr("Run")})
	if err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	if got.Name != "Run" || got.TimeOfDay != model.Morning {
		t.Errorf("UpdateHabit() = %+v", got)
	}
}

func TestCreateAssignment(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "ada", "ada@example.com")
	mustHabit(t, s, "Exercise", model.Morning)
	h := mustHabit(t, s, "Read", model.Evening)

	mustAssignment(t, s, u.ID, h.ID)
	if _, err := s.assignments.CreateAssignment(ctx, u.ID, h.ID); !errors.Is(err, validation.ErrAlreadyExists) {
		t.Errorf("second CreateAssignment() error = %v, want AlreadyExists", err)
	}

	tests := []struct {
		name            string
		userID, habitID uint64
		entity          string
	}{
		{"unknown user", 999, h.ID, "User"},
		{"unknown habit", u.ID, 999, "Habit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.assignments.CreateAssignment(ctx, tt.userID, tt.habitID)
			var nfe *validation.NotFoundError
			if !errors.As(err, &nfe) || nfe.Entity != tt.entity {
				t.Errorf("CreateAssignment() error = %v, want NotFound(%s)", err, tt.entity)
			}
		})
	}
}

func TestListAssignmentsByUser(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ada := mustUser(t, s, "ada", "ada@example.com")
	grace := mustUser(t, s, "grace", "grace@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	mustAssignment(t, s, ada.ID, h.ID)

	list, err := s.assignments.ListAssignmentsByUser(ctx, ada.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("ListAssignmentsByUser(ada) = %v, %v; want one", list, err)
	}
	list, err = s.assignments.ListAssignmentsByUser(ctx, grace.ID)
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("ListAssignmentsByUser(grace) = %v, %v; want empty non-nil", list, err)
	}
	if _, err := s.assignments.ListAssignmentsByUser(ctx, 999); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("ListAssignmentsByUser(unknown) error = %v, want NotFound", err)
	}
}

func TestCreateCompletedDate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	a := mustAssignment(t, s, u.ID, h.ID)
	day, _ := model.ParseDate("2024-04-01")

	if _, err := s.completions.CreateCompletedDate(ctx, 999, day); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("unknown assignment error = %v, want NotFound", err)
	}

	cd, err := s.completions.CreateCompletedDate(ctx, a.ID, day)
	if err != nil {
		t.Fatalf("CreateCompletedDate() error = %v", err)
	}
	if cd.ID == 0 || cd.Date != day {
		t.Errorf("CreateCompletedDate() = %+v", cd)
	}
	if _, err := s.completions.CreateCompletedDate(ctx, a.ID, day); !errors.Is(err, validation.ErrAlreadyExists) {
		t.Errorf("same day again error = %v, want AlreadyExists", err)
	}

	if len(s.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(s.events.events))
	}
	evt := s.events.events[0]
	if evt.Type != queue.CompletionRecordedType || evt.UserID != u.ID || evt.HabitID != h.ID || evt.CompletedDate != "2024-04-01" {
		t.Errorf("event = %+v", evt)
	}
}

func TestCreateCompletedDateDefaultsToToday(t *testing.T) {
	s := newServices(t)
	fixed := time.Date(2025, time.January, 2, 23, 30, 0, 0, time.UTC)
	s.completions.now = func() time.Time { return fixed }

	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	a := mustAssignment(t, s, u.ID, h.ID)

	cd, err := s.completions.CreateCompletedDate(context.Background(), a.ID, model.Date{})
	if err != nil {
		t.Fatalf("CreateCompletedDate() error = %v", err)
	}
	if cd.Date.String() != "2025-01-02" {
		t.Errorf("Date = %s, want 2025-01-02", cd.Date)
	}
}

func TestCreateCompletedDateIgnoresPublishFailure(t *testing.T) {
	s := newServices(t)
	s.events.err = errors.New("broker down")

	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	a := mustAssignment(t, s, u.ID, h.ID)

	day, _ := model.ParseDate("2024-04-02")
	if _, err := s.completions.CreateCompletedDate(context.Background(), a.ID, day); err != nil {
		t.Errorf("CreateCompletedDate() error = %v, want nil despite publish failure", err)
	}
	list, err := s.completions.ListCompletedDatesByAssignment(context.Background(), a.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("ListCompletedDatesByAssignment() = %v, %v; want one row", list, err)
	}
}

func TestDeleteNotFoundThenGone(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	other := mustHabit(t, s, "Walk", model.Morning)
	a := mustAssignment(t, s, u.ID, other.ID)

	tests := []struct {
		name string
		del  func(id uint64) error
		get  func(id uint64) error
		id   uint64
	}{
		{
			name: "assignment",
			del:  func(id uint64) error { return s.assignments.DeleteAssignment(ctx, id) },
			get:  func(id uint64) error { _, err := s.assignments.GetAssignment(ctx, id); return err },
			id:   a.ID,
		},
		{
			name: "habit",
			del:  func(id uint64) error { return s.habits.DeleteHabit(ctx, id) },
			get:  func(id uint64) error { _, err := s.habits.GetHabit(ctx, id); return err },
			id:   h.ID,
		},
		{
			name: "user",
			del:  func(id uint64) error { return s.users.DeleteUser(ctx, id) },
			get:  func(id uint64) error { _, err := s.users.GetUser(ctx, id); return err },
			id:   u.ID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.del(9999); !errors.Is(err, validation.ErrNotFound) {
				t.Errorf("delete unknown error = %v, want NotFound", err)
			}
			if err := tt.del(tt.id); err != nil {
				t.Fatalf("delete error = %v", err)
			}
			if err := tt.get(tt.id); !errors.Is(err, validation.ErrNotFound) {
				t.Errorf("get after delete error = %v, want NotFound", err)
			}
		})
	}
}

func TestDeleteAssignmentRemovesCompletedDates(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	a := mustAssignment(t, s, u.ID, h.ID)

	var ids []uint64
	for _, day := range []string{"2024-05-01", "2024-05-02"} {
		d, _ := model.ParseDate(day)
		cd, err := s.completions.CreateCompletedDate(ctx, a.ID, d)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, cd.ID)
	}

	if err := s.assignments.DeleteAssignment(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAssignment() error = %v", err)
	}
	for _, id := range ids {
		if _, err := s.completions.GetCompletedDate(ctx, id); !errors.Is(err, validation.ErrNotFound) {
			t.Errorf("GetCompletedDate(%d) error = %v, want NotFound", id, err)
		}
	}
	if _, err := s.completions.ListCompletedDatesByAssignment(ctx, a.ID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("ListCompletedDatesByAssignment() error = %v, want NotFound", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "ada", "ada@example.com")
	h := mustHabit(t, s, "Read", model.Evening)
	a := mustAssignment(t, s, u.ID, h.ID)
	d, _ := model.ParseDate("2024-05-01")
	cd, err := s.completions.CreateCompletedDate(ctx, a.ID, d)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.users.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.assignments.GetAssignment(ctx, a.ID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("assignment survived user delete: %v", err)
	}
	if _, err := s.completions.GetCompletedDate(ctx, cd.ID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("completed date survived user delete: %v", err)
	}
	if err := s.completions.DeleteCompletedDate(ctx, cd.ID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("DeleteCompletedDate() error = %v, want NotFound", err)
	}
}
