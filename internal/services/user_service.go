package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"badgeflow/internal/config"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService
type userService struct {
	users    repositories.UserRepository
	cfg      *config.AuthConfig
	logger   *zap.Logger
	validate *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, cfg *config.AuthConfig, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, NewValidationError("user id is required", nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("user", id)
		}
		s.logger.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return nil, NewInternalError("failed to get user")
	}

	return user, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID string, req *UpdateSettingsRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid settings request", err)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		if err := s.users.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user", zap.String("user_id", userID), zap.Error(err))
			return nil, NewInternalError("failed to update user")
		}
	}

	if req.NewPassword != nil {
		if req.CurrentPassword == nil {
			return nil, NewValidationError("current password is required to change password", nil)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(*req.CurrentPassword)); err != nil {
			return nil, NewUnauthorizedError("current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), s.cfg.BCryptCost)
		if err != nil {
			return nil, NewInternalError("failed to hash password")
		}

		if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
			s.logger.Error("Failed to update password", zap.String("user_id", userID), zap.Error(err))
			return nil, NewInternalError("failed to update password")
		}
		user.Password = string(hash)

		s.logger.Info("User changed password", zap.String("user_id", userID))
	}

	return user, nil
}

func (s *userService) ListWithBadgeCounts(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	if params.Limit <= 0 {
		params = models.DefaultPagination()
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	page, err := s.users.ListWithBadgeCounts(ctx, params)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, NewInternalError("failed to list users")
	}

	return page, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("user id is required", nil)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntityNotFoundError("user", id)
		}
		s.logger.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return NewInternalError("failed to delete user")
	}

	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}
