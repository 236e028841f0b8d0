package badges

import (
	"net/http"
	"strings"

	"badgeflow/internal/middleware"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// BadgeController handles earned-badge API endpoints
type BadgeController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewBadgeController creates a new badge controller
func NewBadgeController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BadgeController {
	return &BadgeController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ListMyBadges handles GET /api/v1/badges
func (c *BadgeController) ListMyBadges(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	badges, err := c.serviceCollection.GetBadgeService().ListByUser(r.Context(), authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, badges)
}

// GetBadge handles GET /api/v1/badges/{id}. Badges are publicly shareable,
// so no auth is required to look one up by ID.
func (c *BadgeController) GetBadge(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("badge id is required", nil))
		return
	}

	badge, err := c.serviceCollection.GetBadgeService().GetByID(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, badge)
}

// DeleteBadge handles DELETE /api/v1/badges/{id}. Holders may revoke their
// own badges; admins may revoke any.
func (c *BadgeController) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("badge id is required", nil))
		return
	}

	badge, err := c.serviceCollection.GetBadgeService().GetByID(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if badge.UserID != authCtx.UserID && !authCtx.IsAdmin() {
		c.responseBuilder.WriteForbidden(w, r, "cannot revoke another user's badge")
		return
	}

	if err := c.serviceCollection.GetBadgeService().Delete(r.Context(), id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}

// ResetMyBadges handles POST /api/v1/badges/reset. Deletes every badge the
// caller has earned; missions become completable again.
func (c *BadgeController) ResetMyBadges(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	deleted, err := c.serviceCollection.GetBadgeService().ResetByUser(r.Context(), authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"deleted": deleted,
	})
}

// VerifyBadge handles GET /api/v1/verify/{badgeID}. All four verification
// statuses return 200; only an unknown badge ID is a 404.
func (c *BadgeController) VerifyBadge(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("badge id is required", nil))
		return
	}

	result, err := c.serviceCollection.GetBadgeService().Verify(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

func extractIDFromPath(path string, index int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < index {
		return ""
	}
	return parts[index-1]
}
