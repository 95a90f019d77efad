package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// UserService manages user records and their roles.
type UserService interface {
	// RegisterUser creates the user for email, or refreshes its last login
	// when it already exists. created reports which happened.
	// Self-registration only grants RoleUser.
	RegisterUser(ctx context.Context, email string, role domain.Role) (user *domain.User, created bool, err error)

	// GetRole returns the stored role of email, or store.ErrUserNotFound.
	GetRole(ctx context.Context, email string) (domain.Role, error)
}

type userServiceImpl struct {
	users    store.UserStore
	timeouts Timeouts
	logger   *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users store.UserStore, timeouts Timeouts, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:    users,
		timeouts: timeouts,
		logger:   logger.With("component", "user_service"),
	}, nil
}

func (s *userServiceImpl) RegisterUser(
	ctx context.Context,
	email string,
	role domain.Role,
) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if role != "" && role != domain.RoleUser {
		return nil, false, domain.NewValidationError("role", "only the user role can be self-assigned", domain.ErrInvalidRole)
	}

	user, err := domain.NewUser(email, domain.RoleUser)
	if err != nil {
		log.Debug("rejected invalid user", "error", err)
		return nil, false, err
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	stored, created, err := s.users.UpsertUser(ctx, user)
	if err != nil {
		log.Error("failed to upsert user", "error", err)
		return nil, false, NewServiceError("user", "register_user", "failed to save user", err)
	}

	if created {
		log.Info("user created", "user_id", stored.ID)
	} else {
		log.Debug("existing user logged in", "user_id", stored.ID)
	}
	return stored, created, nil
}

func (s *userServiceImpl) GetRole(ctx context.Context, email string) (domain.Role, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	user, err := s.users.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			return "", store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user role", "error", err)
		return "", NewServiceError("user", "get_role", "failed to load user", err)
	}
	return user.Role, nil
}
