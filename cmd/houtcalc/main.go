package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/cli"
	"github.com/Simplici0/houtcalc/internal/config"
	"github.com/Simplici0/houtcalc/internal/db"
	"github.com/Simplici0/houtcalc/internal/logging"
	"github.com/Simplici0/houtcalc/internal/migrations"
	"github.com/Simplici0/houtcalc/internal/pricetable"
	"github.com/Simplici0/houtcalc/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg, warnings := config.Load()

	logger := logging.Must(logging.Config{
		Level:       cfg.LogLevel,
		Format:      "console",
		OutputPath:  "stderr",
		Development: cfg.IsDev(),
		Service:     "houtcalc-cli",
	})
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Debug("config", zap.String("warning", w))
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, migrations.Source(cfg.MigrationsDir)); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	if _, err := seed.Run(ctx, database, seed.Defaults()); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	store := pricetable.NewStore(database)
	live := pricetable.NewLive(store)
	if err := live.Reload(ctx); err != nil {
		return err
	}

	app := &cli.App{Prices: live, Store: store, Logger: logger}
	return cli.NewRootCmd(app).Execute()
}
