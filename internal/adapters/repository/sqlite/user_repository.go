package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, slack_id, display_name, real_name, is_bot, is_hr, deleted, created_at, updated_at`

func (r *UserRepository) GetBySlackID(ctx context.Context, slackID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE slack_id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, slackID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	conditions := []string{"deleted = 0"}
	if filter.ExcludeBots {
		conditions = append(conditions, "is_bot = 0")
	}
	if filter.HROnly {
		conditions = append(conditions, "is_hr = 1")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY slack_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := toMicros(time.Now())
	query := `
		INSERT INTO users (id, slack_id, display_name, real_name, is_bot, is_hr, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (slack_id) DO UPDATE
		SET display_name = excluded.display_name,
		    real_name = excluded.real_name,
		    is_bot = excluded.is_bot,
		    is_hr = MAX(users.is_hr, excluded.is_hr),
		    deleted = excluded.deleted,
		    updated_at = excluded.updated_at
		RETURNING id, is_hr, created_at, updated_at
	`
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, query,
		user.ID.String(), user.SlackID, user.DisplayName, user.RealName, user.IsBot, user.IsHR, user.Deleted, now, now,
	).Scan(&user.ID, &user.IsHR, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.SlackID, err)
	}
	user.CreatedAt = fromMicros(createdAt)
	user.UpdatedAt = fromMicros(updatedAt)
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	user := &domain.User{}
	var createdAt, updatedAt int64
	err := row.Scan(
		&user.ID,
		&user.SlackID,
		&user.DisplayName,
		&user.RealName,
		&user.IsBot,
		&user.IsHR,
		&user.Deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = fromMicros(createdAt)
	user.UpdatedAt = fromMicros(updatedAt)
	return user, nil
}
