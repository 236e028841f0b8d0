package repositories

import (
	"context"
	"errors"

	"badgeflow/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error)
	ListWithBadgeCounts(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error)
	Count(ctx context.Context) (int64, error)
}

// MissionRepository defines data access for missions
type MissionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByID(ctx context.Context, id string) (*models.Mission, error)
	Update(ctx context.Context, mission *models.Mission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Mission, error)
	ListWithCompletion(ctx context.Context, userID string) ([]models.Mission, error)
	Count(ctx context.Context) (int64, error)
}

// BadgeRepository defines data access for earned badges
type BadgeRepository interface {
	// Create inserts a badge; returns ErrDuplicate when the
	// (mission_id, user_id) pair already holds a badge.
	Create(ctx context.Context, badge *models.EarnedBadge) error
	GetByID(ctx context.Context, id string) (*models.EarnedBadge, error)
	ListByUser(ctx context.Context, userID string) ([]models.EarnedBadge, error)
	ListRecent(ctx context.Context, limit int) ([]models.EarnedBadge, error)
	ExistsForMissionUser(ctx context.Context, missionID, userID string) (bool, error)
	UpdateProvenance(ctx context.Context, id, txHash, contractAddress string, blockNumber int64) error
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every badge held by the user and reports how
	// many rows went away. Zero is not an error.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountAnchored(ctx context.Context) (int64, error)
	CountByMission(ctx context.Context) ([]models.MissionBadgeCount, error)
}
