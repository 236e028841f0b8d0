package services

import (
	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
)

// SignupRequest carries the fields for account creation
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns a signed token with the authenticated user
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// TokenClaims is the decoded identity carried by an access token
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// UpdateSettingsRequest carries profile and password changes. Password fields
// are optional; both must be present to change the password.
type UpdateSettingsRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=8,max=128"`
}

// CreateMissionRequest carries the fields for mission creation
type CreateMissionRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=2000"`
	Icon        string `json:"icon" validate:"max=100"`
	BadgeName   string `json:"badge_name" validate:"required,max=255"`
	BadgeColor  string `json:"badge_color" validate:"max=50"`
	BadgeIcon   string `json:"badge_icon" validate:"max=100"`
	Category    string `json:"category" validate:"required,max=100"`
	Issuer      string `json:"issuer" validate:"max=255"`
	Criteria    string `json:"criteria" validate:"max=2000"`
}

// UpdateMissionRequest carries partial mission updates
type UpdateMissionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	BadgeName   *string `json:"badge_name,omitempty" validate:"omitempty,max=255"`
	BadgeColor  *string `json:"badge_color,omitempty" validate:"omitempty,max=50"`
	BadgeIcon   *string `json:"badge_icon,omitempty" validate:"omitempty,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Issuer      *string `json:"issuer,omitempty" validate:"omitempty,max=255"`
	Criteria    *string `json:"criteria,omitempty" validate:"omitempty,max=2000"`
}

// CompleteMissionResult is the outcome of completing a mission: the issued
// badge plus the on-chain registration outcome. The badge is always present
// on success; registration may be skipped or failed without affecting it.
type CompleteMissionResult struct {
	Badge        *models.EarnedBadge             `json:"badge"`
	Registration *blockchain.RegistrationOutcome `json:"registration"`
}

// VerifyBadgeResponse is the wire format of a verification check. It merges
// the fresh on-chain comparison with the provenance stored at issuance time
// and the active network profile.
type VerifyBadgeResponse struct {
	Status       blockchain.VerificationStatus `json:"status"`
	OnChainHash  *string                       `json:"onChainHash"`
	ComputedHash string                        `json:"computedHash"`
	Issuer       *string                       `json:"issuer"`
	Timestamp    *int64                        `json:"timestamp"`
	Message      string                        `json:"message"`

	TxHash          *string `json:"txHash"`
	BlockNumber     *int64  `json:"blockNumber"`
	ContractAddress *string `json:"contractAddress"`

	Network     string  `json:"network"`
	ExplorerURL *string `json:"explorerUrl"`

	Badge *models.EarnedBadge `json:"badge"`
}
