package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"badgeflow/internal/database"
	"badgeflow/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository over SQLite
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const badgeColumns = `id, mission_id, user_id, badge_name, badge_color, badge_icon, category, earned_at, tx_hash, contract_address, block_number`

func (r *badgeRepository) Create(ctx context.Context, badge *models.EarnedBadge) error {
	query := `
		INSERT INTO earned_badges (id, mission_id, user_id, badge_name, badge_color, badge_icon, category, earned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.ExecContext(ctx, query,
		badge.ID, badge.MissionID, badge.UserID,
		badge.BadgeName, badge.BadgeColor, badge.BadgeIcon,
		badge.Category, badge.EarnedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("badge for mission %s user %s: %w", badge.MissionID, badge.UserID, ErrDuplicate)
		}
		return fmt.Errorf("creating badge: %w", err)
	}

	return nil
}

func (r *badgeRepository) GetByID(ctx context.Context, id string) (*models.EarnedBadge, error) {
	query := fmt.Sprintf(`SELECT %s FROM earned_badges WHERE id = ?`, badgeColumns)

	var b models.EarnedBadge
	err := r.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.MissionID, &b.UserID,
		&b.BadgeName, &b.BadgeColor, &b.BadgeIcon,
		&b.Category, &b.EarnedAt,
		&b.TxHash, &b.ContractAddress, &b.BlockNumber,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning badge: %w", err)
	}

	return &b, nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID string) ([]models.EarnedBadge, error) {
	query := `
		SELECT b.id, b.mission_id, b.user_id, b.badge_name, b.badge_color, b.badge_icon,
		       b.category, b.earned_at, b.tx_hash, b.contract_address, b.block_number,
		       COALESCE(m.title, '') AS mission_title
		FROM earned_badges b
		LEFT JOIN missions m ON m.id = b.mission_id
		WHERE b.user_id = ?
		ORDER BY b.earned_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing badges for user %s: %w", userID, err)
	}
	defer rows.Close()

	return r.collectWithMission(rows)
}

func (r *badgeRepository) ListRecent(ctx context.Context, limit int) ([]models.EarnedBadge, error) {
	query := `
		SELECT b.id, b.mission_id, b.user_id, b.badge_name, b.badge_color, b.badge_icon,
		       b.category, b.earned_at, b.tx_hash, b.contract_address, b.block_number,
		       COALESCE(m.title, '') AS mission_title
		FROM earned_badges b
		LEFT JOIN missions m ON m.id = b.mission_id
		ORDER BY b.earned_at DESC
		LIMIT ?`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent badges: %w", err)
	}
	defer rows.Close()

	return r.collectWithMission(rows)
}

func (r *badgeRepository) ExistsForMissionUser(ctx context.Context, missionID, userID string) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM earned_badges WHERE mission_id = ? AND user_id = ?)`,
		missionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking badge existence: %w", err)
	}
	return exists, nil
}

func (r *badgeRepository) UpdateProvenance(ctx context.Context, id, txHash, contractAddress string, blockNumber int64) error {
	query := `
		UPDATE earned_badges
		SET tx_hash = ?, contract_address = ?, block_number = ?
		WHERE id = ?`

	result, err := r.ExecContext(ctx, query, txHash, contractAddress, blockNumber, id)
	if err != nil {
		return fmt.Errorf("updating badge provenance: %w", err)
	}

	return requireRowAffected(result)
}

func (r *badgeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.ExecContext(ctx, `DELETE FROM earned_badges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting badge: %w", err)
	}
	return requireRowAffected(result)
}

func (r *badgeRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM earned_badges WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting badges for user %s: %w", userID, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted badges: %w", err)
	}
	return deleted, nil
}

func (r *badgeRepository) Count(ctx context.Context) (int64, error) {
	return r.GetTotalCount(ctx, `SELECT COUNT(*) FROM earned_badges`)
}

func (r *badgeRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.GetTotalCount(ctx, `SELECT COUNT(*) FROM earned_badges WHERE user_id = ?`, userID)
}

func (r *badgeRepository) CountAnchored(ctx context.Context) (int64, error) {
	return r.GetTotalCount(ctx, `SELECT COUNT(*) FROM earned_badges WHERE tx_hash IS NOT NULL`)
}

func (r *badgeRepository) CountByMission(ctx context.Context) ([]models.MissionBadgeCount, error) {
	query := `
		SELECT m.id, m.title, COUNT(b.id) AS count
		FROM missions m
		LEFT JOIN earned_badges b ON b.mission_id = m.id
		GROUP BY m.id
		ORDER BY count DESC, m.title ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting badges per mission: %w", err)
	}
	defer rows.Close()

	var counts []models.MissionBadgeCount
	for rows.Next() {
		var c models.MissionBadgeCount
		if err := rows.Scan(&c.MissionID, &c.Title, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning mission count row: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *badgeRepository) collectWithMission(rows *sql.Rows) ([]models.EarnedBadge, error) {
	var badges []models.EarnedBadge
	for rows.Next() {
		var b models.EarnedBadge
		if err := rows.Scan(
			&b.ID, &b.MissionID, &b.UserID,
			&b.BadgeName, &b.BadgeColor, &b.BadgeIcon,
			&b.Category, &b.EarnedAt,
			&b.TxHash, &b.ContractAddress, &b.BlockNumber,
			&b.MissionTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning badge row: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
