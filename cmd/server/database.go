package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/platform/mongodb"
	"github.com/phrazzld/parcel-api/internal/platform/postgres"
	"github.com/phrazzld/parcel-api/internal/store"
)

// openStores connects to the configured backend and returns its stores.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return postgres.NewStores(db, logger), nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.Database.Name)
		if err := mongodb.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return mongodb.NewStores(client, database, logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
