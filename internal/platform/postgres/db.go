package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/store"
)

// Open connects to PostgreSQL, configures the pool and verifies connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", slog.String("driver", config.DriverPostgres))
	return db, nil
}

// NewStores wires every PostgreSQL store onto db.
func NewStores(db *sql.DB, logger *slog.Logger) *store.Stores {
	return &store.Stores{
		Parcels:  NewPostgresParcelStore(db, logger),
		Payments: NewPostgresPaymentStore(db, logger),
		Users:    NewPostgresUserStore(db, logger),
		Riders:   NewPostgresRiderStore(db, logger),
		Tracking: NewPostgresTrackingStore(db, logger),
		Ping:     db.PingContext,
		Close:    func(context.Context) error { return db.Close() },
	}
}
