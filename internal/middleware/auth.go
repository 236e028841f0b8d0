package middleware

import (
	"context"
	"net/http"
	"strings"

	"badgeflow/internal/contextutils"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"go.uber.org/zap"
)

// AuthContext carries the authenticated identity through the request context
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the authenticated user holds the admin role
func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role == "admin"
}

const authContextKey ContextKey = "auth_context"

// AuthMiddleware resolves bearer tokens into an AuthContext
type AuthMiddleware struct {
	auth    services.AuthService
	builder *response.Builder
	logger  *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(auth services.AuthService, builder *response.Builder, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:    auth,
		builder: builder,
		logger:  logger,
	}
}

// OptionalAuth attaches an AuthContext when a valid token is present and
// passes the request through either way.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := m.resolve(r); claims != nil {
			r = r.WithContext(m.withAuth(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := m.resolve(r)
		if claims == nil {
			m.builder.WriteUnauthorized(w, r, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(m.withAuth(r.Context(), claims)))
	})
}

// RequireRole rejects authenticated requests whose role does not match
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := m.resolve(r)
			if claims == nil {
				m.builder.WriteUnauthorized(w, r, "authentication required")
				return
			}
			if claims.Role != role {
				m.logger.Warn("Role check failed",
					zap.String("user_id", claims.UserID),
					zap.String("required_role", role),
					zap.String("user_role", claims.Role),
				)
				m.builder.WriteForbidden(w, r, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r.WithContext(m.withAuth(r.Context(), claims)))
		})
	}
}

func (m *AuthMiddleware) resolve(r *http.Request) *services.TokenClaims {
	token := extractBearerToken(r)
	if token == "" {
		return nil
	}

	claims, err := m.auth.ParseToken(token)
	if err != nil {
		return nil
	}
	return claims
}

func (m *AuthMiddleware) withAuth(ctx context.Context, claims *services.TokenClaims) context.Context {
	authCtx := &AuthContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	ctx = context.WithValue(ctx, authContextKey, authCtx)
	return contextutils.WithUserID(ctx, claims.UserID)
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	if authCtx, ok := ctx.Value(authContextKey).(*AuthContext); ok {
		return authCtx
	}
	return nil
}

// GetUserID extracts the authenticated user ID from request context
func GetUserID(ctx context.Context) string {
	return contextutils.GetUserID(ctx)
}
