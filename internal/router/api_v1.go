package router

import (
	"net/http"
	"strings"

	"badgeflow/internal/handlers/api/v1/auth"
	"badgeflow/internal/handlers/api/v1/badges"
	"badgeflow/internal/handlers/api/v1/missions"
	"badgeflow/internal/handlers/api/v1/platform"
	"badgeflow/internal/middleware"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// AddAPIv1Routes registers all /api/v1 endpoints with their access levels
func AddAPIv1Routes(
	mux *http.ServeMux,
	serviceCollection *services.ServiceCollection,
	authMiddleware *middleware.AuthMiddleware,
	responseBuilder *response.Builder,
	logger *zap.Logger,
) {
	authController := auth.NewAuthController(serviceCollection, logger, responseBuilder)
	missionController := missions.NewMissionController(serviceCollection, logger, responseBuilder)
	badgeController := badges.NewBadgeController(serviceCollection, logger, responseBuilder)
	platformController := platform.NewPlatformController(serviceCollection, logger, responseBuilder)

	methodNotAllowed := func(w http.ResponseWriter, r *http.Request) {
		responseBuilder.WriteError(w, r, &services.ServiceError{
			Type:       "METHOD_NOT_ALLOWED",
			Message:    "method not allowed",
			StatusCode: http.StatusMethodNotAllowed,
		})
	}

	// Public auth endpoints
	mux.HandleFunc("/api/v1/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r)
			return
		}
		authController.Signup(w, r)
	})
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r)
			return
		}
		authController.Login(w, r)
	})

	// Missions: list is optionally authenticated (completion flags appear for
	// signed-in users), create is admin only.
	mux.Handle("/api/v1/missions", authMiddleware.OptionalAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				missionController.ListMissions(w, r)
			case http.MethodPost:
				authMiddleware.RequireRole("admin")(http.HandlerFunc(missionController.CreateMission)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, r)
			}
		})))

	mux.Handle("/api/v1/missions/", authMiddleware.OptionalAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/complete") {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, r)
					return
				}
				authMiddleware.RequireAuth(http.HandlerFunc(missionController.CompleteMission)).ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet:
				missionController.GetMission(w, r)
			case http.MethodPut:
				authMiddleware.RequireRole("admin")(http.HandlerFunc(missionController.UpdateMission)).ServeHTTP(w, r)
			case http.MethodDelete:
				authMiddleware.RequireRole("admin")(http.HandlerFunc(missionController.DeleteMission)).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, r)
			}
		})))

	// Badges
	mux.Handle("/api/v1/badges", authMiddleware.RequireAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			badgeController.ListMyBadges(w, r)
		})))

	mux.Handle("/api/v1/badges/", authMiddleware.OptionalAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/reset") {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, r)
					return
				}
				authMiddleware.RequireAuth(http.HandlerFunc(badgeController.ResetMyBadges)).ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet:
				badgeController.GetBadge(w, r)
			case http.MethodDelete:
				badgeController.DeleteBadge(w, r)
			default:
				methodNotAllowed(w, r)
			}
		})))

	// Public verification endpoint
	mux.HandleFunc("/api/v1/verify/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		badgeController.VerifyBadge(w, r)
	})

	// Network profile info
	mux.HandleFunc("/api/v1/network", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		platformController.Network(w, r)
	})

	// Dashboard and settings (authenticated)
	mux.Handle("/api/v1/dashboard", authMiddleware.RequireAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			platformController.Dashboard(w, r)
		})))

	mux.Handle("/api/v1/settings", authMiddleware.RequireAuth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				platformController.GetSettings(w, r)
			case http.MethodPut:
				platformController.UpdateSettings(w, r)
			default:
				methodNotAllowed(w, r)
			}
		})))

	// Admin endpoints
	adminOnly := authMiddleware.RequireRole("admin")

	mux.Handle("/api/v1/analytics", adminOnly(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			platformController.Analytics(w, r)
		})))

	mux.Handle("/api/v1/admin/users", adminOnly(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			platformController.ListUsers(w, r)
		})))

	mux.Handle("/api/v1/admin/users/", adminOnly(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, r)
				return
			}
			platformController.DeleteUser(w, r)
		})))

	logger.Info("API v1 routes registered")
}
