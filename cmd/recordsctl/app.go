package main

import (
	"context"

	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/bootstrap"
	"github.com/yigit/campusrecords/internal/db"
)

type globalOptions struct {
	configPath string
}

// app is an opened, migrated database with the services built on it
type app struct {
	db       *db.PostgresDB
	services *services.Services
}

func (a *app) Close() {
	a.db.Close()
}

// openApp loads the configuration, connects and migrates
func openApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.configPath)
	if err != nil {
		return nil, err
	}

	database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &app{db: database, services: deps.Services}, nil
}
