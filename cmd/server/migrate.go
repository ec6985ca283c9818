package main

import (
	"fmt"

	"github.com/iliyamo/habit-tracker/internal/database"
)

type MigrateUpCmd struct{}

func (MigrateUpCmd) Run(app *appContext) error {
	return database.MigrateUp(app.Config.DB, app.Logger)
}

type MigrateDownCmd struct {
	Yes bool `help:"Confirm dropping every table." short:"y"`
}

func (c MigrateDownCmd) Run(app *appContext) error {
	if !c.Yes {
		return fmt.Errorf("migrate down drops all data; pass --yes to confirm")
	}
	mg, err := database.NewMigrator(app.Config.DB, app.Logger)
	if err != nil {
		return err
	}
	defer mg.Close()
	if err := mg.Down(); err != nil {
		return err
	}
	app.Logger.Info("schema reverted", "driver", app.Config.DB.Driver)
	return nil
}

type MigrateVersionCmd struct{}

func (MigrateVersionCmd) Run(app *appContext) error {
	mg, err := database.NewMigrator(app.Config.DB, app.Logger)
	if err != nil {
		return err
	}
	defer mg.Close()
	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	fmt.Printf("version %d (dirty=%t)\n", v, dirty)
	return nil
}
