package services

import (
	"context"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"go.uber.org/zap"
)

const recentBadgeWindow = 5

// analyticsService implements AnalyticsService
type analyticsService struct {
	users    repositories.UserRepository
	missions repositories.MissionRepository
	badges   repositories.BadgeRepository
	ledger   blockchain.Ledger
	logger   *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	users repositories.UserRepository,
	missions repositories.MissionRepository,
	badges repositories.BadgeRepository,
	ledger blockchain.Ledger,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		users:    users,
		missions: missions,
		badges:   badges,
		ledger:   ledger,
		logger:   logger,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	if userID == "" {
		return nil, NewValidationError("user id is required", nil)
	}

	totalMissions, err := s.missions.Count(ctx)
	if err != nil {
		return nil, s.wrap("count missions", err)
	}

	completed, err := s.badges.CountByUser(ctx, userID)
	if err != nil {
		return nil, s.wrap("count user badges", err)
	}

	anchored, err := s.badges.CountAnchored(ctx)
	if err != nil {
		return nil, s.wrap("count anchored badges", err)
	}

	recent, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.wrap("list user badges", err)
	}
	if len(recent) > recentBadgeWindow {
		recent = recent[:recentBadgeWindow]
	}

	var completionRate float64
	if totalMissions > 0 {
		completionRate = float64(completed) / float64(totalMissions)
	}

	return &models.DashboardSummary{
		TotalMissions:    totalMissions,
		CompletedCount:   completed,
		RemainingCount:   totalMissions - completed,
		AnchoredCount:    anchored,
		RecentBadges:     recent,
		CompletionRate:   completionRate,
		AnchoringEnabled: s.ledger.ProbeAvailability(ctx),
	}, nil
}

func (s *analyticsService) Platform(ctx context.Context) (*models.AnalyticsSummary, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, s.wrap("count users", err)
	}

	totalMissions, err := s.missions.Count(ctx)
	if err != nil {
		return nil, s.wrap("count missions", err)
	}

	totalBadges, err := s.badges.Count(ctx)
	if err != nil {
		return nil, s.wrap("count badges", err)
	}

	anchored, err := s.badges.CountAnchored(ctx)
	if err != nil {
		return nil, s.wrap("count anchored badges", err)
	}

	perMission, err := s.badges.CountByMission(ctx)
	if err != nil {
		return nil, s.wrap("count badges per mission", err)
	}

	recent, err := s.badges.ListRecent(ctx, recentBadgeWindow)
	if err != nil {
		return nil, s.wrap("list recent badges", err)
	}

	var coverage float64
	if totalBadges > 0 {
		coverage = float64(anchored) / float64(totalBadges)
	}

	return &models.AnalyticsSummary{
		TotalUsers:        totalUsers,
		TotalMissions:     totalMissions,
		TotalBadges:       totalBadges,
		AnchoredBadges:    anchored,
		AnchoringCoverage: coverage,
		BadgesPerMission:  perMission,
		RecentBadges:      recent,
	}, nil
}

func (s *analyticsService) wrap(op string, err error) error {
	s.logger.Error("Analytics query failed", zap.String("operation", op), zap.Error(err))
	return NewInternalError("failed to compute analytics")
}
