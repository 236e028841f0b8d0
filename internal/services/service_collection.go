package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/config"
	"badgeflow/internal/database"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ServiceCollection holds all services with their dependencies wired
type ServiceCollection struct {
	AuthService      AuthService
	UserService      UserService
	MissionService   MissionService
	BadgeService     BadgeService
	AnalyticsService AnalyticsService

	Repositories *repositories.Collection
	Ledger       blockchain.Ledger
	Logger       *zap.Logger
	Config       *config.Config
	DBManager    *database.Manager
}

// NewServiceCollection wires the full service graph. The ledger client is
// injected rather than constructed here so tests can substitute a fake.
func NewServiceCollection(
	dbManager *database.Manager,
	ledger blockchain.Ledger,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger client is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	repos, err := repositories.NewCollection(dbManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	registrar := blockchain.NewRegistrar(ledger, logger)
	verifier := blockchain.NewVerifier(ledger, logger)

	collection := &ServiceCollection{
		AuthService:      NewAuthService(repos.User, &cfg.Auth, logger),
		UserService:      NewUserService(repos.User, &cfg.Auth, logger),
		MissionService:   NewMissionService(repos.Mission, repos.Badge, registrar, logger),
		BadgeService:     NewBadgeService(repos.Badge, verifier, ledger, logger),
		AnalyticsService: NewAnalyticsService(repos.User, repos.Mission, repos.Badge, ledger, logger),
		Repositories:     repos,
		Ledger:           ledger,
		Logger:           logger,
		Config:           cfg,
		DBManager:        dbManager,
	}

	logger.Info("Service collection initialized",
		zap.String("network", cfg.Blockchain.Network),
	)

	return collection, nil
}

// GetAuthService returns the auth service
func (sc *ServiceCollection) GetAuthService() AuthService { return sc.AuthService }

// GetUserService returns the user service
func (sc *ServiceCollection) GetUserService() UserService { return sc.UserService }

// GetMissionService returns the mission service
func (sc *ServiceCollection) GetMissionService() MissionService { return sc.MissionService }

// GetBadgeService returns the badge service
func (sc *ServiceCollection) GetBadgeService() BadgeService { return sc.BadgeService }

// GetAnalyticsService returns the analytics service
func (sc *ServiceCollection) GetAnalyticsService() AnalyticsService { return sc.AnalyticsService }

// HealthCheck reports database and ledger reachability
func (sc *ServiceCollection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := sc.Repositories.HealthCheck(ctx)
	health["ledger"] = map[string]interface{}{
		"network":   sc.Config.Blockchain.Network,
		"available": sc.Ledger.ProbeAvailability(ctx),
	}
	return health
}

// EnsureAdminUser creates the configured admin account if it does not exist
// yet. Safe to call on every startup.
func (sc *ServiceCollection) EnsureAdminUser(ctx context.Context) error {
	authCfg := &sc.Config.Auth

	_, err := sc.Repositories.User.GetByEmail(ctx, authCfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(authCfg.AdminSecret), authCfg.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate admin id: %w", err)
	}

	admin := &models.User{
		ID:       id.String(),
		Name:     authCfg.AdminName,
		Email:    strings.ToLower(authCfg.AdminEmail),
		Password: string(hash),
		Role:     "admin",
	}
	if err := sc.Repositories.User.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	sc.Logger.Info("Admin account created", zap.String("email", admin.Email))
	return nil
}

// Shutdown releases resources held by the collection
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")
	return sc.Repositories.Close()
}
