package platform

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"badgeflow/internal/middleware"
	"badgeflow/internal/models"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// PlatformController handles dashboard, analytics, settings, network and
// admin user endpoints.
type PlatformController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewPlatformController creates a new platform controller
func NewPlatformController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *PlatformController {
	return &PlatformController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// Network handles GET /api/v1/network
func (c *PlatformController) Network(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.GetBadgeService().NetworkInfo())
}

// Dashboard handles GET /api/v1/dashboard
func (c *PlatformController) Dashboard(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	summary, err := c.serviceCollection.GetAnalyticsService().Dashboard(r.Context(), authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, summary)
}

// Analytics handles GET /api/v1/analytics (admin)
func (c *PlatformController) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := c.serviceCollection.GetAnalyticsService().Platform(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, summary)
}

// GetSettings handles GET /api/v1/settings
func (c *PlatformController) GetSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	user, err := c.serviceCollection.GetUserService().GetByID(r.Context(), authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, user)
}

// UpdateSettings handles PUT /api/v1/settings
func (c *PlatformController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("Failed to decode settings request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, err := c.serviceCollection.GetUserService().UpdateSettings(r.Context(), authCtx.UserID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, user)
}

// ListUsers handles GET /api/v1/admin/users (admin)
func (c *PlatformController) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := models.DefaultPagination()
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	page, err := c.serviceCollection.GetUserService().ListWithBadgeCounts(r.Context(), params)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePaginatedResponse(c.responseBuilder, w, r, page)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id} (admin)
func (c *PlatformController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("user id is required", nil))
		return
	}
	id := parts[4]

	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx != nil && authCtx.UserID == id {
		c.responseBuilder.WriteError(w, r, services.NewBusinessError("cannot delete your own account", "SELF_DELETE"))
		return
	}

	if err := c.serviceCollection.GetUserService().Delete(r.Context(), id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}
