package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

// DefaultTopN is the leaderboard length used when the caller asks for n <= 0.
const DefaultTopN = 5

type resultsService struct {
	userRepo ports.UserRepository
	voteRepo ports.VoteRepository
}

func NewResultsService(userRepo ports.UserRepository, voteRepo ports.VoteRepository) ports.ResultsService {
	return &resultsService{
		userRepo: userRepo,
		voteRepo: voteRepo,
	}
}

func (s *resultsService) PointsForUser(ctx context.Context, userID string, period domain.Period) (domain.Points, error) {
	if _, err := s.userRepo.GetBySlackID(ctx, userID); err != nil {
		return nil, err
	}

	points, err := s.voteRepo.SumPointsForTarget(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points for %s: %w", userID, err)
	}
	return points.Normalized(), nil
}

func (s *resultsService) TotalPoints(ctx context.Context, period domain.Period, excludeBots bool) (map[string]domain.Points, error) {
	users, err := s.userRepo.List(ctx, domain.UserFilter{ExcludeBots: excludeBots})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	sums, err := s.voteRepo.SumPointsByTarget(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}

	totals := make(map[string]domain.Points, len(users))
	for _, user := range users {
		totals[user.SlackID] = sums[user.SlackID].Normalized()
	}
	return totals, nil
}

// Winners reports, per category, the highest total and every user reaching
// it. With no votes at all every eligible user ties at 0.
func (s *resultsService) Winners(ctx context.Context, period domain.Period) (map[domain.Category]domain.Winner, error) {
	totals, err := s.TotalPoints(ctx, period, true)
	if err != nil {
		return nil, err
	}

	winners := make(map[domain.Category]domain.Winner, len(domain.Categories))
	for _, category := range domain.Categories {
		winner := domain.Winner{Category: category, Users: []string{}}
		first := true
		for userID, points := range totals {
			value := points[category]
			switch {
			case first || value > winner.Points:
				winner.Points = value
				winner.Users = []string{userID}
				first = false
			case value == winner.Points:
				winner.Users = append(winner.Users, userID)
			}
		}
		sort.Strings(winner.Users)
		winners[category] = winner
	}
	return winners, nil
}

// TopN ranks users per category by points descending, ties broken by
// ascending user id.
func (s *resultsService) TopN(ctx context.Context, period domain.Period, n int) (map[domain.Category][]domain.RankEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	totals, err := s.TotalPoints(ctx, period, true)
	if err != nil {
		return nil, err
	}

	rankings := make(map[domain.Category][]domain.RankEntry, len(domain.Categories))
	for _, category := range domain.Categories {
		entries := make([]domain.RankEntry, 0, len(totals))
		for userID, points := range totals {
			entries = append(entries, domain.RankEntry{UserID: userID, Points: points[category]})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Points != entries[j].Points {
				return entries[i].Points > entries[j].Points
			}
			return entries[i].UserID < entries[j].UserID
		})
		if len(entries) > n {
			entries = entries[:n]
		}
		rankings[category] = entries
	}
	return rankings, nil
}

// PointsNotificationBatch bundles every vote created or changed since the
// cutoff by target. Users without new votes are left out.
func (s *resultsService) PointsNotificationBatch(ctx context.Context, since time.Time) ([]domain.PointsSummary, error) {
	votes, err := s.voteRepo.ListModifiedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes since %s: %w", since.Format(time.RFC3339), err)
	}

	byTarget := make(map[string]*domain.PointsSummary)
	for _, vote := range votes {
		summary, ok := byTarget[vote.TargetID]
		if !ok {
			summary = &domain.PointsSummary{UserID: vote.TargetID, Points: domain.NewPoints()}
			byTarget[vote.TargetID] = summary
		}
		summary.Votes++
		summary.Points.Add(vote.Points)
	}

	batch := make([]domain.PointsSummary, 0, len(byTarget))
	for _, summary := range byTarget {
		batch = append(batch, *summary)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].UserID < batch[j].UserID })
	return batch, nil
}
