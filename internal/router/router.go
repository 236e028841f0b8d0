package router

import (
	"net/http"

	"badgeflow/internal/middleware"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// New builds the full HTTP handler: routes wrapped in the shared middleware
// chain.
func New(
	serviceCollection *services.ServiceCollection,
	responseBuilder *response.Builder,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authMiddleware := middleware.NewAuthMiddleware(
		serviceCollection.GetAuthService(),
		responseBuilder,
		logger,
	)

	AddAPIv1Routes(mux, serviceCollection, authMiddleware, responseBuilder, logger)
	addHealthRoutes(mux, serviceCollection, responseBuilder)

	return middleware.Chain(mux,
		middleware.RequestID(logger),
		middleware.Recovery(logger),
		middleware.Logging(),
		middleware.SecureHeaders,
		middleware.CORS(""),
	)
}

// addHealthRoutes registers liveness and readiness endpoints
func addHealthRoutes(mux *http.ServeMux, sc *services.ServiceCollection, rb *response.Builder) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rb.WriteSuccess(w, r, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/health/detailed", func(w http.ResponseWriter, r *http.Request) {
		rb.WriteSuccess(w, r, sc.HealthCheck(r.Context()))
	})
}
