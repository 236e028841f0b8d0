package missions

import (
	"encoding/json"
	"net/http"
	"strings"

	"badgeflow/internal/middleware"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// MissionController handles mission API endpoints
type MissionController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewMissionController creates a new mission controller
func NewMissionController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *MissionController {
	return &MissionController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ListMissions handles GET /api/v1/missions. When the caller is
// authenticated each mission carries its completed flag for that user.
func (c *MissionController) ListMissions(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if authCtx := middleware.GetAuthContext(r.Context()); authCtx != nil {
		userID = authCtx.UserID
	}

	missions, err := c.serviceCollection.GetMissionService().List(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, missions)
}

// GetMission handles GET /api/v1/missions/{id}
func (c *MissionController) GetMission(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("mission id is required", nil))
		return
	}

	mission, err := c.serviceCollection.GetMissionService().GetByID(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, mission)
}

// CreateMission handles POST /api/v1/missions (admin)
func (c *MissionController) CreateMission(w http.ResponseWriter, r *http.Request) {
	var req services.CreateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("Failed to decode create mission request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	mission, err := c.serviceCollection.GetMissionService().Create(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, mission)
}

// UpdateMission handles PUT /api/v1/missions/{id} (admin)
func (c *MissionController) UpdateMission(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("mission id is required", nil))
		return
	}

	var req services.UpdateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("Failed to decode update mission request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	mission, err := c.serviceCollection.GetMissionService().Update(r.Context(), id, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, mission)
}

// DeleteMission handles DELETE /api/v1/missions/{id} (admin)
func (c *MissionController) DeleteMission(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("mission id is required", nil))
		return
	}

	if err := c.serviceCollection.GetMissionService().Delete(r.Context(), id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}

// CompleteMission handles POST /api/v1/missions/{id}/complete
func (c *MissionController) CompleteMission(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r.Context())
	if authCtx == nil {
		c.responseBuilder.WriteUnauthorized(w, r, "authentication required")
		return
	}

	id := extractIDFromPath(r.URL.Path, 4)
	if id == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("mission id is required", nil))
		return
	}

	result, err := c.serviceCollection.GetMissionService().Complete(r.Context(), id, authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Mission completed via API",
		zap.String("mission_id", id),
		zap.String("user_id", authCtx.UserID),
		zap.String("registration", string(result.Registration.Status)),
	)

	c.responseBuilder.WriteCreated(w, r, result)
}

// extractIDFromPath returns the path segment at the given index, e.g. index 4
// of /api/v1/missions/{id}/complete is {id}.
func extractIDFromPath(path string, index int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < index {
		return ""
	}
	return parts[index-1]
}
