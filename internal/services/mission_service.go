package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// missionService implements MissionService
type missionService struct {
	missions  repositories.MissionRepository
	badges    repositories.BadgeRepository
	registrar *blockchain.Registrar
	logger    *zap.Logger
	validate  *validator.Validate
}

// NewMissionService creates a new mission service
func NewMissionService(
	missions repositories.MissionRepository,
	badges repositories.BadgeRepository,
	registrar *blockchain.Registrar,
	logger *zap.Logger,
) MissionService {
	return &missionService{
		missions:  missions,
		badges:    badges,
		registrar: registrar,
		logger:    logger,
		validate:  validator.New(),
	}
}

func (s *missionService) List(ctx context.Context, userID string) ([]models.Mission, error) {
	var (
		missions []models.Mission
		err      error
	)

	if userID != "" {
		missions, err = s.missions.ListWithCompletion(ctx, userID)
	} else {
		missions, err = s.missions.List(ctx)
	}
	if err != nil {
		s.logger.Error("Failed to list missions", zap.Error(err))
		return nil, NewInternalError("failed to list missions")
	}

	return missions, nil
}

func (s *missionService) GetByID(ctx context.Context, id string) (*models.Mission, error) {
	if id == "" {
		return nil, NewValidationError("mission id is required", nil)
	}

	mission, err := s.missions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("mission", id)
		}
		s.logger.Error("Failed to get mission", zap.String("mission_id", id), zap.Error(err))
		return nil, NewInternalError("failed to get mission")
	}

	return mission, nil
}

func (s *missionService) Create(ctx context.Context, req *CreateMissionRequest) (*models.Mission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid mission request", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate mission id")
	}

	mission := &models.Mission{
		ID:          id.String(),
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		BadgeName:   req.BadgeName,
		BadgeColor:  req.BadgeColor,
		BadgeIcon:   req.BadgeIcon,
		Category:    req.Category,
		Issuer:      req.Issuer,
		Criteria:    req.Criteria,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.missions.Create(ctx, mission); err != nil {
		s.logger.Error("Failed to create mission", zap.Error(err))
		return nil, NewInternalError("failed to create mission")
	}

	s.logger.Info("Mission created",
		zap.String("mission_id", mission.ID),
		zap.String("title", mission.Title),
	)

	return mission, nil
}

func (s *missionService) Update(ctx context.Context, id string, req *UpdateMissionRequest) (*models.Mission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid mission request", err)
	}

	mission, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyIfSet := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyIfSet(&mission.Title, req.Title)
	applyIfSet(&mission.Description, req.Description)
	applyIfSet(&mission.Icon, req.Icon)
	applyIfSet(&mission.BadgeName, req.BadgeName)
	applyIfSet(&mission.BadgeColor, req.BadgeColor)
	applyIfSet(&mission.BadgeIcon, req.BadgeIcon)
	applyIfSet(&mission.Category, req.Category)
	applyIfSet(&mission.Issuer, req.Issuer)
	applyIfSet(&mission.Criteria, req.Criteria)

	if err := s.missions.Update(ctx, mission); err != nil {
		s.logger.Error("Failed to update mission", zap.String("mission_id", id), zap.Error(err))
		return nil, NewInternalError("failed to update mission")
	}

	return mission, nil
}

func (s *missionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("mission id is required", nil)
	}

	if err := s.missions.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntityNotFoundError("mission", id)
		}
		s.logger.Error("Failed to delete mission", zap.String("mission_id", id), zap.Error(err))
		return NewInternalError("failed to delete mission")
	}

	s.logger.Info("Mission deleted", zap.String("mission_id", id))
	return nil
}

// Complete issues the mission's badge exactly once per (mission, user) pair.
// The pre-check gives a friendly conflict early; the UNIQUE constraint on the
// table is the backstop that serializes concurrent completions. Ledger
// anchoring runs after the insert and never rolls the badge back.
func (s *missionService) Complete(ctx context.Context, missionID, userID string) (*CompleteMissionResult, error) {
	if missionID == "" {
		return nil, NewValidationError("mission id is required", nil)
	}
	if userID == "" {
		return nil, NewValidationError("user id is required", nil)
	}

	mission, err := s.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	exists, err := s.badges.ExistsForMissionUser(ctx, missionID, userID)
	if err != nil {
		s.logger.Error("Failed to check badge existence", zap.Error(err))
		return nil, NewInternalError("failed to check badge existence")
	}
	if exists {
		return nil, NewConflictError("mission already completed", "MISSION_ALREADY_COMPLETED")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate badge id")
	}

	badge := &models.EarnedBadge{
		ID:         id.String(),
		MissionID:  mission.ID,
		UserID:     userID,
		BadgeName:  mission.BadgeName,
		BadgeColor: mission.BadgeColor,
		BadgeIcon:  mission.BadgeIcon,
		Category:   mission.Category,
		EarnedAt:   models.FormatEarnedAt(time.Now()),
	}

	if err := s.badges.Create(ctx, badge); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("mission already completed", "MISSION_ALREADY_COMPLETED")
		}
		s.logger.Error("Failed to create badge", zap.Error(err))
		return nil, NewInternalError("failed to create badge")
	}

	outcome := s.registrar.RegisterBadge(ctx, blockchain.BadgeData{
		ID:        badge.ID,
		MissionID: badge.MissionID,
		UserID:    badge.UserID,
		BadgeName: badge.BadgeName,
		EarnedAt:  badge.EarnedAt,
	})

	if outcome.Confirmed() {
		if err := s.badges.UpdateProvenance(ctx, badge.ID, outcome.TxHash, outcome.ContractAddress, outcome.BlockNumber); err != nil {
			// The badge is anchored on chain but the pointer was lost
			// locally; verification still works by recomputation.
			s.logger.Error("Failed to persist badge provenance",
				zap.String("badge_id", badge.ID),
				zap.String("tx_hash", outcome.TxHash),
				zap.Error(err),
			)
		} else {
			badge.TxHash = &outcome.TxHash
			badge.ContractAddress = &outcome.ContractAddress
			badge.BlockNumber = &outcome.BlockNumber
		}
	}

	s.logger.Info("Mission completed",
		zap.String("mission_id", mission.ID),
		zap.String("user_id", userID),
		zap.String("badge_id", badge.ID),
		zap.String("registration", string(outcome.Status)),
	)

	return &CompleteMissionResult{Badge: badge, Registration: outcome}, nil
}
