package services

import (
	"context"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
)

// AuthService handles authentication and token lifecycle
type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ParseToken(token string) (*TokenClaims, error)
}

// UserService handles user profile and admin user management
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, userID string, req *UpdateSettingsRequest) (*models.User, error)
	ListWithBadgeCounts(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error)
	Delete(ctx context.Context, id string) error
}

// MissionService handles mission CRUD and completion
type MissionService interface {
	List(ctx context.Context, userID string) ([]models.Mission, error)
	GetByID(ctx context.Context, id string) (*models.Mission, error)
	Create(ctx context.Context, req *CreateMissionRequest) (*models.Mission, error)
	Update(ctx context.Context, id string, req *UpdateMissionRequest) (*models.Mission, error)
	Delete(ctx context.Context, id string) error
	// Complete issues the mission's badge to the user exactly once, then
	// anchors it on the ledger on a best-effort basis.
	Complete(ctx context.Context, missionID, userID string) (*CompleteMissionResult, error)
}

// BadgeService handles earned-badge queries and verification
type BadgeService interface {
	ListByUser(ctx context.Context, userID string) ([]models.EarnedBadge, error)
	GetByID(ctx context.Context, id string) (*models.EarnedBadge, error)
	Delete(ctx context.Context, id string) error
	ResetByUser(ctx context.Context, userID string) (int64, error)
	Verify(ctx context.Context, badgeID string) (*VerifyBadgeResponse, error)
	NetworkInfo() blockchain.NetworkInfo
}

// AnalyticsService produces dashboard and platform summaries
type AnalyticsService interface {
	Dashboard(ctx context.Context, userID string) (*models.DashboardSummary, error)
	Platform(ctx context.Context) (*models.AnalyticsSummary, error)
}
