package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store on db.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// UpsertUser implements store.UserStore. xmax is zero only for freshly
// inserted rows, which tells inserts and conflict updates apart.
func (s *PostgresUserStore) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var (
		stored  domain.User
		role    string
		created bool
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, role, created_at, last_log_in)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET last_log_in = EXCLUDED.last_log_in
		RETURNING id, email, role, created_at, last_log_in, (xmax = 0) AS inserted
	`, user.ID, user.Email, string(user.Role), user.CreatedAt, user.LastLogIn).Scan(
		&stored.ID, &stored.Email, &role, &stored.CreatedAt, &stored.LastLogIn, &created)
	if err != nil {
		log.Error("failed to upsert user", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}
	stored.Role = domain.Role(role)

	log.Debug("user upserted",
		slog.String("user_id", stored.ID.String()),
		slog.Bool("created", created))
	return &stored, created, nil
}

// GetUserByEmail implements store.UserStore.
func (s *PostgresUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		u    domain.User
		role string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role, created_at, last_log_in
		FROM users
		WHERE email = $1
	`, domain.NormalizeEmail(email)).Scan(&u.ID, &u.Email, &role, &u.CreatedAt, &u.LastLogIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// UpdateUserRole implements store.UserStore.
func (s *PostgresUserStore) UpdateUserRole(ctx context.Context, email string, role domain.Role) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !role.Valid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRole)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE email = $2`, string(role), domain.NormalizeEmail(email))
	if err != nil {
		log.Error("failed to update user role", slog.String("error", err.Error()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "user"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrUserNotFound
		}
		return err
	}

	log.Info("user role updated", slog.String("role", string(role)))
	return nil
}
