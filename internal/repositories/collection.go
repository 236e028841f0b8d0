package repositories

import (
	"context"
	"fmt"

	"badgeflow/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User    UserRepository
	Mission MissionRepository
	Badge   BadgeRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.User = NewUserRepository(db, logger)
	collection.Mission = NewMissionRepository(db, logger)
	collection.Badge = NewBadgeRepository(db, logger)

	logger.Info("Repository collection initialized")

	return collection, nil
}

// HealthCheck reports database connectivity and query metrics
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	dbHealth := c.db.Health(ctx)
	health["database"] = dbHealth

	metrics := c.db.Metrics()
	health["performance"] = map[string]interface{}{
		"query_count":        metrics.QueryCount,
		"error_count":        metrics.ErrorCount,
		"slow_query_count":   metrics.SlowQueryCount,
		"avg_query_duration": metrics.AvgQueryDuration.String(),
	}

	return health
}

// GetDB returns the underlying database manager for advanced operations
func (c *Collection) GetDB() *database.Manager {
	return c.db
}

// GetLogger returns the logger instance
func (c *Collection) GetLogger() *zap.Logger {
	return c.logger
}

// Close closes the underlying database connection
func (c *Collection) Close() error {
	c.logger.Info("Closing repository collection")
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
