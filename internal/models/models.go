package models

import "time"

// User represents a registered account
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,max=100"`
	Email     string    `json:"email" db:"email" validate:"required,email,max=320"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role" validate:"required,oneof=user admin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Computed fields (not in DB)
	BadgeCount int `json:"badge_count,omitempty" db:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Mission represents an achievable mission and the badge it awards
type Mission struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required,max=255"`
	Description string    `json:"description" db:"description" validate:"required,max=2000"`
	Icon        string    `json:"icon" db:"icon"`
	BadgeName   string    `json:"badge_name" db:"badge_name" validate:"required,max=255"`
	BadgeColor  string    `json:"badge_color" db:"badge_color"`
	BadgeIcon   string    `json:"badge_icon" db:"badge_icon"`
	Category    string    `json:"category" db:"category" validate:"required,max=100"`
	Issuer      string    `json:"issuer" db:"issuer"`
	Criteria    string    `json:"criteria" db:"criteria"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Computed fields (not in DB)
	Completed   bool `json:"completed" db:"-"`
	EarnedCount int  `json:"earned_count,omitempty" db:"-"`
}

// EarnedBadge represents a badge issued to a user for completing a mission.
// EarnedAt is stored as the canonical string that feeds the badge hash, not
// as a parsed time; re-rendering a timestamp would change the hash.
type EarnedBadge struct {
	ID         string `json:"id" db:"id"`
	MissionID  string `json:"mission_id" db:"mission_id"`
	UserID     string `json:"user_id" db:"user_id"`
	BadgeName  string `json:"badge_name" db:"badge_name"`
	BadgeColor string `json:"badge_color" db:"badge_color"`
	BadgeIcon  string `json:"badge_icon" db:"badge_icon"`
	Category   string `json:"category" db:"category"`
	EarnedAt   string `json:"earned_at" db:"earned_at"`

	// On-chain provenance, present only when anchoring confirmed
	TxHash          *string `json:"tx_hash,omitempty" db:"tx_hash"`
	ContractAddress *string `json:"contract_address,omitempty" db:"contract_address"`
	BlockNumber     *int64  `json:"block_number,omitempty" db:"block_number"`

	// Joined fields (not in DB)
	MissionTitle string `json:"mission_title,omitempty" db:"-"`
	UserName     string `json:"user_name,omitempty" db:"-"`
}

// Anchored reports whether the badge carries confirmed on-chain provenance
func (b *EarnedBadge) Anchored() bool {
	return b.TxHash != nil && *b.TxHash != ""
}

// EarnedAtLayout is the timestamp layout used for the hashed earned_at field:
// UTC with millisecond precision and a literal Z suffix.
const EarnedAtLayout = "2006-01-02T15:04:05.000Z"

// FormatEarnedAt renders a timestamp in the canonical earned_at layout
func FormatEarnedAt(t time.Time) string {
	return t.UTC().Format(EarnedAtLayout)
}

// PaginationParams controls offset pagination on list endpoints
type PaginationParams struct {
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// DefaultPagination returns the default page window
func DefaultPagination() PaginationParams {
	return PaginationParams{Limit: 20, Offset: 0}
}

// PaginatedResponse wraps a page of results with totals
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResponse computes page bookkeeping for a result window
func NewPaginatedResponse[T any](items []T, total int64, params PaginationParams) *PaginatedResponse[T] {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return &PaginatedResponse[T]{
		Items:      items,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
		HasMore:    int64(params.Offset+len(items)) < total,
		TotalPages: totalPages,
	}
}

// MissionBadgeCount pairs a mission with the number of badges it has issued
type MissionBadgeCount struct {
	MissionID string `json:"mission_id" db:"mission_id"`
	Title     string `json:"title" db:"title"`
	Count     int64  `json:"count" db:"count"`
}

// DashboardSummary aggregates the signed-in user's progress
type DashboardSummary struct {
	TotalMissions    int64         `json:"total_missions"`
	CompletedCount   int64         `json:"completed_count"`
	RemainingCount   int64         `json:"remaining_count"`
	AnchoredCount    int64         `json:"anchored_count"`
	RecentBadges     []EarnedBadge `json:"recent_badges"`
	CompletionRate   float64       `json:"completion_rate"`
	AnchoringEnabled bool          `json:"anchoring_enabled"`
}

// AnalyticsSummary aggregates platform-wide issuance figures
type AnalyticsSummary struct {
	TotalUsers        int64               `json:"total_users"`
	TotalMissions     int64               `json:"total_missions"`
	TotalBadges       int64               `json:"total_badges"`
	AnchoredBadges    int64               `json:"anchored_badges"`
	AnchoringCoverage float64             `json:"anchoring_coverage"`
	BadgesPerMission  []MissionBadgeCount `json:"badges_per_mission"`
	RecentBadges      []EarnedBadge       `json:"recent_badges"`
}
