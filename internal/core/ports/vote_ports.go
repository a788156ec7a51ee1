package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

type VoteRepository interface {
	// Upsert stores vote under its (voter, target, period start) key. An
	// existing row gets its points replaced, the comment merged and
	// modified_at touched; the stored row is returned.
	Upsert(ctx context.Context, vote *domain.Vote) (*domain.Vote, error)
	ListByVoter(ctx context.Context, voterID string, period domain.Period) ([]*domain.Vote, error)
	ListByTarget(ctx context.Context, targetID string, period domain.Period) ([]*domain.Vote, error)
	ListModifiedSince(ctx context.Context, since time.Time) ([]*domain.Vote, error)
	SumPointsForTarget(ctx context.Context, targetID string, period domain.Period) (domain.Points, error)
	SumPointsByTarget(ctx context.Context, period domain.Period) (map[string]domain.Points, error)
}

type SubmitVoteInput struct {
	VoterID  string
	TargetID string
	Points   domain.Points
	Comment  string
}

type VoteService interface {
	SubmitVote(ctx context.Context, input SubmitVoteInput) (*domain.Vote, error)
	VotesByVoter(ctx context.Context, voterID string, period domain.Period) ([]*domain.Vote, error)
	VotesByTarget(ctx context.Context, targetID string, period domain.Period) ([]*domain.Vote, error)
	CommentsForTarget(ctx context.Context, targetID string, period domain.Period) ([]Comment, error)
}

type Comment struct {
	Author string
	Text   string
}
