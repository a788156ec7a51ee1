package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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
	query := `SELECT ` + userColumns + ` FROM users WHERE slack_id = $1`
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
	conditions := []string{"deleted = FALSE"}
	if filter.ExcludeBots {
		conditions = append(conditions, "is_bot = FALSE")
	}
	if filter.HROnly {
		conditions = append(conditions, "is_hr = TRUE")
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
	query := `
		INSERT INTO users (id, slack_id, display_name, real_name, is_bot, is_hr, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slack_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    real_name = EXCLUDED.real_name,
		    is_bot = EXCLUDED.is_bot,
		    is_hr = users.is_hr OR EXCLUDED.is_hr,
		    deleted = EXCLUDED.deleted,
		    updated_at = NOW()
		RETURNING id, is_hr, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.SlackID, user.DisplayName, user.RealName, user.IsBot, user.IsHR, user.Deleted,
	).Scan(&user.ID, &user.IsHR, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.SlackID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.SlackID,
		&user.DisplayName,
		&user.RealName,
		&user.IsBot,
		&user.IsHR,
		&user.Deleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}
