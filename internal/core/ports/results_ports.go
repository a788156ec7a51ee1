package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

type ResultsService interface {
	PointsForUser(ctx context.Context, userID string, period domain.Period) (domain.Points, error)
	TotalPoints(ctx context.Context, period domain.Period, excludeBots bool) (map[string]domain.Points, error)
	Winners(ctx context.Context, period domain.Period) (map[domain.Category]domain.Winner, error)
	TopN(ctx context.Context, period domain.Period, n int) (map[domain.Category][]domain.RankEntry, error)
	PointsNotificationBatch(ctx context.Context, since time.Time) ([]domain.PointsSummary, error)
}
