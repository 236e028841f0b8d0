package services

import (
	"context"
	"database/sql"
	"errors"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"go.uber.org/zap"
)

// badgeService implements BadgeService
type badgeService struct {
	badges   repositories.BadgeRepository
	verifier *blockchain.Verifier
	ledger   blockchain.Ledger
	logger   *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(
	badges repositories.BadgeRepository,
	verifier *blockchain.Verifier,
	ledger blockchain.Ledger,
	logger *zap.Logger,
) BadgeService {
	return &badgeService{
		badges:   badges,
		verifier: verifier,
		ledger:   ledger,
		logger:   logger,
	}
}

func (s *badgeService) ListByUser(ctx context.Context, userID string) ([]models.EarnedBadge, error) {
	if userID == "" {
		return nil, NewValidationError("user id is required", nil)
	}

	badges, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list badges", zap.String("user_id", userID), zap.Error(err))
		return nil, NewInternalError("failed to list badges")
	}

	return badges, nil
}

func (s *badgeService) GetByID(ctx context.Context, id string) (*models.EarnedBadge, error) {
	if id == "" {
		return nil, NewValidationError("badge id is required", nil)
	}

	badge, err := s.badges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("badge", id)
		}
		s.logger.Error("Failed to get badge", zap.String("badge_id", id), zap.Error(err))
		return nil, NewInternalError("failed to get badge")
	}

	return badge, nil
}

func (s *badgeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("badge id is required", nil)
	}

	if err := s.badges.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntityNotFoundError("badge", id)
		}
		s.logger.Error("Failed to delete badge", zap.String("badge_id", id), zap.Error(err))
		return NewInternalError("failed to delete badge")
	}

	s.logger.Info("Badge revoked", zap.String("badge_id", id))
	return nil
}

// ResetByUser wipes the caller's earned badges so they can start over.
// On-chain records are immutable and stay behind; a re-earned badge gets a
// fresh ID and a fresh registration.
func (s *badgeService) ResetByUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, NewValidationError("user id is required", nil)
	}

	deleted, err := s.badges.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to reset badges", zap.String("user_id", userID), zap.Error(err))
		return 0, NewInternalError("failed to reset badges")
	}

	s.logger.Info("Badges reset",
		zap.String("user_id", userID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// Verify recomputes the badge hash from the stored row and compares it with
// the on-chain record. An unknown badge ID is a 404; every reachability or
// registration state of a known badge maps to a verification status, never
// to an error.
func (s *badgeService) Verify(ctx context.Context, badgeID string) (*VerifyBadgeResponse, error) {
	badge, err := s.GetByID(ctx, badgeID)
	if err != nil {
		return nil, err
	}

	result := s.verifier.VerifyBadge(ctx, blockchain.BadgeData{
		ID:        badge.ID,
		MissionID: badge.MissionID,
		UserID:    badge.UserID,
		BadgeName: badge.BadgeName,
		EarnedAt:  badge.EarnedAt,
	})

	info := s.ledger.NetworkInfo()

	return &VerifyBadgeResponse{
		Status:          result.Status,
		OnChainHash:     result.OnChainHash,
		ComputedHash:    result.ComputedHash,
		Issuer:          result.Issuer,
		Timestamp:       result.Timestamp,
		Message:         result.Message,
		TxHash:          badge.TxHash,
		BlockNumber:     badge.BlockNumber,
		ContractAddress: badge.ContractAddress,
		Network:         info.Network,
		ExplorerURL:     info.ExplorerURL,
		Badge:           badge,
	}, nil
}

func (s *badgeService) NetworkInfo() blockchain.NetworkInfo {
	return s.ledger.NetworkInfo()
}
