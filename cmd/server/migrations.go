package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/platform/mongodb"
	"github.com/phrazzld/parcel-api/internal/platform/postgres"
)

// runMigrations loads configuration and applies command to the configured
// database.
func runMigrations(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("error closing database connection", "error", err)
			}
		}()
		return postgres.Migrate(ctx, db, command, log)

	case config.DriverMongo:
		if command != postgres.MigrateUp {
			return fmt.Errorf("migrate %s is not supported by the mongo driver", command)
		}
		client, err := mongodb.Connect(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Database.Name)); err != nil {
			return err
		}
		log.Info("mongodb indexes ensured", slog.String("database", cfg.Database.Name))
		return nil

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
