package database

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HealthChecker performs database health checks on demand
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger
}

// HealthStatus describes the outcome of a health check
type HealthStatus struct {
	Healthy         bool          `json:"healthy"`
	PingLatency     time.Duration `json:"ping_latency"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	Error           string        `json:"error,omitempty"`
	CheckedAt       time.Time     `json:"checked_at"`
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(manager *Manager, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		manager: manager,
		logger:  logger,
	}
}

// Check pings the database and reports pool state
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{CheckedAt: time.Now()}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := h.manager.DB().PingContext(checkCtx)
	status.PingLatency = time.Since(start)

	stats := h.manager.Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.Idle = stats.Idle

	if err != nil {
		status.Healthy = false
		status.Error = err.Error()
		h.logger.Warn("Database health check failed",
			zap.Error(err),
			zap.Duration("ping_latency", status.PingLatency),
		)
		return status
	}

	status.Healthy = true
	return status
}
