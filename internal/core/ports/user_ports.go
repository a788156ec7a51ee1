package ports

import (
	"context"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

type UserRepository interface {
	GetBySlackID(ctx context.Context, slackID string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error)
	// Upsert inserts or updates by SlackID. IsHR is only ever raised, never
	// cleared, so flags granted out of band survive a sync.
	Upsert(ctx context.Context, user *domain.User) error
}

// Directory lists the members of the chat workspace.
type Directory interface {
	ListMembers(ctx context.Context) ([]*domain.User, error)
}

type UserService interface {
	Get(ctx context.Context, slackID string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error)
	Sync(ctx context.Context) (int, error)
}
