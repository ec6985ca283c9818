// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/database"
)

// Config returns a sqlite configuration pointing into a fresh temp dir.
func Config(t testing.TB) config.DBConfig {
	t.Helper()
	return config.DBConfig{
		Driver:          database.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "habits.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}

// Open returns a migrated database that is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	cfg := Config(t)
	if err := database.MigrateUp(cfg, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
