package main // Entry point package

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/logger"
)

var version = "dev"

// CLI is the command tree.  serve runs when no command is given.
var CLI struct {
	Version kong.VersionFlag `help:"Print the version and exit."`

	Serve   ServeCmd `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate struct {
		Up      MigrateUpCmd      `cmd:"" help:"Apply all pending migrations."`
		Down    MigrateDownCmd    `cmd:"" help:"Revert all migrations."`
		Version MigrateVersionCmd `cmd:"" help:"Print the current schema version."`
	} `cmd:"" help:"Manage the database schema."`
}

// appContext is passed to every command's Run method.
type appContext struct {
	Config config.Config
	Logger *log.Logger
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("habits"),
		kong.Description("Habit tracker API server"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	l, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := kctx.Run(&appContext{Config: cfg, Logger: l}); err != nil {
		l.Error("command failed", "command", kctx.Command(), "err", err)
		os.Exit(1)
	}
}
