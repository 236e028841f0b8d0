package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"badgeflow/internal/config"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt credentials and JWT tokens
type authService struct {
	users    repositories.UserRepository
	cfg      *config.AuthConfig
	logger   *zap.Logger
	validate *validator.Validate
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

type accessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid signup request", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, NewInternalError("failed to hash password")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate user id")
	}

	user := &models.User{
		ID:        id.String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		Role:      "user",
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, EntityAlreadyExistsError("user", "email", email)
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, NewInternalError("failed to create user")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid login request", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUnauthorizedError("invalid email or password")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, NewInternalError("failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &accessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	return &TokenClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()

	claims := accessClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
			Issuer:    "badgeflow",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", NewInternalError("failed to sign token")
	}

	return signed, nil
}
