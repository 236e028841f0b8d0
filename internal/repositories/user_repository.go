package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"badgeflow/internal/database"
	"badgeflow/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository over SQLite
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `id, name, email, password, role, created_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ?`, userColumns)
	return r.scanUser(r.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = ?`, userColumns)
	return r.scanUser(r.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ?, role = ? WHERE id = ?`

	result, err := r.ExecContext(ctx, query, user.Name, user.Email, user.Role, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("updating user %s: %w", user.ID, ErrDuplicate)
		}
		return fmt.Errorf("updating user: %w", err)
	}

	return requireRowAffected(result)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return requireRowAffected(result)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireRowAffected(result)
}

func (r *userRepository) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, userColumns)

	rows, err := r.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users, err := r.collectUsers(rows)
	if err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(users, total, params), nil
}

func (r *userRepository) ListWithBadgeCounts(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT u.id, u.name, u.email, u.password, u.role, u.created_at,
		       COUNT(b.id) AS badge_count
		FROM users u
		LEFT JOIN earned_badges b ON b.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC
		LIMIT ? OFFSET ?`

	rows, err := r.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing users with badge counts: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.BadgeCount); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(users, total, params), nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.GetTotalCount(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) collectUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// isUniqueViolation matches the sqlite unique-constraint error text. The
// pure-Go driver does not export a typed constraint error, so the message
// is the stable contract.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
