package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"badgeflow/internal/database"
	"badgeflow/internal/models"

	"go.uber.org/zap"
)

// missionRepository implements MissionRepository over SQLite
type missionRepository struct {
	*BaseRepository
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db *database.Manager, logger *zap.Logger) MissionRepository {
	return &missionRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const missionColumns = `id, title, description, icon, badge_name, badge_color, badge_icon, category, issuer, criteria, created_at`

func (r *missionRepository) Create(ctx context.Context, mission *models.Mission) error {
	query := `
		INSERT INTO missions (id, title, description, icon, badge_name, badge_color, badge_icon, category, issuer, criteria, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.ExecContext(ctx, query,
		mission.ID, mission.Title, mission.Description, mission.Icon,
		mission.BadgeName, mission.BadgeColor, mission.BadgeIcon,
		mission.Category, mission.Issuer, mission.Criteria, mission.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating mission %s: %w", mission.ID, ErrDuplicate)
		}
		return fmt.Errorf("creating mission: %w", err)
	}

	return nil
}

func (r *missionRepository) GetByID(ctx context.Context, id string) (*models.Mission, error) {
	query := fmt.Sprintf(`SELECT %s FROM missions WHERE id = ?`, missionColumns)

	var m models.Mission
	err := r.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Icon,
		&m.BadgeName, &m.BadgeColor, &m.BadgeIcon,
		&m.Category, &m.Issuer, &m.Criteria, &m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning mission: %w", err)
	}

	return &m, nil
}

func (r *missionRepository) Update(ctx context.Context, mission *models.Mission) error {
	query := `
		UPDATE missions
		SET title = ?, description = ?, icon = ?, badge_name = ?, badge_color = ?,
		    badge_icon = ?, category = ?, issuer = ?, criteria = ?
		WHERE id = ?`

	result, err := r.ExecContext(ctx, query,
		mission.Title, mission.Description, mission.Icon,
		mission.BadgeName, mission.BadgeColor, mission.BadgeIcon,
		mission.Category, mission.Issuer, mission.Criteria, mission.ID,
	)
	if err != nil {
		return fmt.Errorf("updating mission: %w", err)
	}

	return requireRowAffected(result)
}

func (r *missionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting mission: %w", err)
	}
	return requireRowAffected(result)
}

func (r *missionRepository) List(ctx context.Context) ([]models.Mission, error) {
	query := fmt.Sprintf(`SELECT %s FROM missions ORDER BY created_at ASC`, missionColumns)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Icon,
			&m.BadgeName, &m.BadgeColor, &m.BadgeIcon,
			&m.Category, &m.Issuer, &m.Criteria, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning mission row: %w", err)
		}
		missions = append(missions, m)
	}

	return missions, rows.Err()
}

func (r *missionRepository) ListWithCompletion(ctx context.Context, userID string) ([]models.Mission, error) {
	query := `
		SELECT m.id, m.title, m.description, m.icon, m.badge_name, m.badge_color,
		       m.badge_icon, m.category, m.issuer, m.criteria, m.created_at,
		       CASE WHEN b.id IS NULL THEN 0 ELSE 1 END AS completed
		FROM missions m
		LEFT JOIN earned_badges b ON b.mission_id = m.id AND b.user_id = ?
		ORDER BY m.created_at ASC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing missions with completion: %w", err)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Icon,
			&m.BadgeName, &m.BadgeColor, &m.BadgeIcon,
			&m.Category, &m.Issuer, &m.Criteria, &m.CreatedAt,
			&m.Completed,
		); err != nil {
			return nil, fmt.Errorf("scanning mission row: %w", err)
		}
		missions = append(missions, m)
	}

	return missions, rows.Err()
}

func (r *missionRepository) Count(ctx context.Context) (int64, error) {
	return r.GetTotalCount(ctx, `SELECT COUNT(*) FROM missions`)
}
