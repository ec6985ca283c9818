package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/habit-tracker/internal/config"
)

//go:embed migrations/*/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema for one driver.  It owns a private
// connection which Close releases.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a dedicated connection and prepares migrations for
// cfg.Driver.
func NewMigrator(cfg config.DBConfig, logger *log.Logger) (*Migrator, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	var driver migratedb.Driver
	switch cfg.Driver {
	case DriverMySQL:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case DriverPostgres:
		driver, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "migrations/"+cfg.Driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate init: %w", err)
	}
	if logger != nil {
		m.Log = migrateLogger{logger.WithPrefix("migrate")}
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations.  An up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down reverts every applied migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version returns the current schema version; 0 means nothing is applied.
func (mg *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the source and the migration connection.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// MigrateUp is the startup shortcut: open, apply, close.
func MigrateUp(cfg config.DBConfig, logger *log.Logger) error {
	mg, err := NewMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if logger != nil {
		v, _, _ := mg.Version()
		logger.Info("schema up to date", "driver", cfg.Driver, "version", v)
	}
	return nil
}

type migrateLogger struct {
	l *log.Logger
}

func (ml migrateLogger) Printf(format string, v ...any) {
	ml.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml migrateLogger) Verbose() bool {
	return ml.l.GetLevel() <= log.DebugLevel
}
