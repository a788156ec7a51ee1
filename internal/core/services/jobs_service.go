package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

// JobsService holds the recurring jobs run by the scheduler. Every job
// tolerates per-recipient delivery failures: they are logged and the batch
// continues.
type JobsService struct {
	users    ports.UserService
	results  ports.ResultsService
	notifier ports.Notifier
	renderer ports.Renderer
	periods  *PeriodCalculator
	topN     int
	log      logrus.FieldLogger
}

func NewJobsService(
	users ports.UserService,
	results ports.ResultsService,
	notifier ports.Notifier,
	renderer ports.Renderer,
	periods *PeriodCalculator,
	topN int,
	log logrus.FieldLogger,
) *JobsService {
	return &JobsService{
		users:    users,
		results:  results,
		notifier: notifier,
		renderer: renderer,
		periods:  periods,
		topN:     topN,
		log:      log.WithField("component", "jobs"),
	}
}

func (s *JobsService) SyncUsers(ctx context.Context) error {
	_, err := s.users.Sync(ctx)
	return err
}

// SendPeriodicMessages reminds everyone on the penultimate day of the month
// and announces the winners on the last one.
func (s *JobsService) SendPeriodicMessages(ctx context.Context) error {
	today := s.periods.Now()
	lastDay := s.periods.CurrentMonth().End.Day()

	switch today.Day() {
	case lastDay - 1:
		return s.RemindAboutProgram(ctx)
	case lastDay:
		return s.AnnounceWinners(ctx)
	}
	return nil
}

func (s *JobsService) RemindAboutProgram(ctx context.Context) error {
	text, err := s.renderer.Render(ports.TextRemindAboutProgram, nil)
	if err != nil {
		return err
	}

	users, err := s.users.List(ctx, domain.UserFilter{ExcludeBots: true})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return s.broadcast(ctx, users, text)
}

func (s *JobsService) AnnounceWinners(ctx context.Context) error {
	text, err := s.WinnersText(ctx, s.periods.CurrentMonth())
	if err != nil {
		return err
	}
	return s.sendToHR(ctx, text)
}

// ReportTopN sends HR the half-year leaderboards of every category.
func (s *JobsService) ReportTopN(ctx context.Context) error {
	text, err := s.TopNText(ctx, s.periods.CurrentHalfYear())
	if err != nil {
		return err
	}
	return s.sendToHR(ctx, text)
}

// NotifyAboutNewPoints tells every user voted for today how many people did
// so and what they received.
func (s *JobsService) NotifyAboutNewPoints(ctx context.Context) error {
	batch, err := s.results.PointsNotificationBatch(ctx, s.periods.Today().Start)
	if err != nil {
		return err
	}

	failed := 0
	for _, summary := range batch {
		text, err := s.renderer.Render(ports.TextGotVoted, ports.GotVotedValues{
			People: summary.Votes,
			Points: ports.CategoryPointsOf(summary.Points),
		})
		if err != nil {
			return err
		}
		if err := s.notifier.Send(ctx, summary.UserID, text); err != nil {
			s.log.WithError(err).WithField("channel", summary.UserID).Warn("failed to notify about new points")
			failed++
		}
	}
	return failedDeliveries(failed, len(batch))
}

// WinnersText renders the winners of period with user names resolved.
func (s *JobsService) WinnersText(ctx context.Context, period domain.Period) (string, error) {
	winners, err := s.results.Winners(ctx, period)
	if err != nil {
		return "", err
	}

	lines := make([]ports.WinnerLine, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		winner := winners[category]
		lines = append(lines, ports.WinnerLine{
			Category: category.Label(),
			Points:   winner.Points,
			Users:    s.names(ctx, winner.Users),
		})
	}
	return s.renderer.Render(ports.TextAnnounceWinners, lines)
}

// TopNText renders one leaderboard per category, joined by blank lines.
func (s *JobsService) TopNText(ctx context.Context, period domain.Period) (string, error) {
	rankings, err := s.results.TopN(ctx, period, s.topN)
	if err != nil {
		return "", err
	}

	n := s.topN
	if n <= 0 {
		n = DefaultTopN
	}

	texts := make([]string, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		entries := rankings[category]
		ids := make([]string, len(entries))
		for j, entry := range entries {
			ids[j] = entry.UserID
		}
		names := s.names(ctx, ids)

		lines := make([]ports.RankLine, len(entries))
		for j, entry := range entries {
			lines[j] = ports.RankLine{User: names[j], Points: entry.Points}
		}

		text, err := s.renderer.Render(ports.TextTopN, ports.TopNValues{
			Category: category.Label(),
			N:        n,
			Entries:  lines,
		})
		if err != nil {
			return "", err
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n\n"), nil
}

func (s *JobsService) sendToHR(ctx context.Context, text string) error {
	users, err := s.users.List(ctx, domain.UserFilter{HROnly: true})
	if err != nil {
		return fmt.Errorf("failed to list HR users: %w", err)
	}
	return s.broadcast(ctx, users, text)
}

func (s *JobsService) broadcast(ctx context.Context, users []*domain.User, text string) error {
	failed := 0
	for _, user := range users {
		if err := s.notifier.Send(ctx, user.SlackID, text); err != nil {
			s.log.WithError(err).WithField("channel", user.SlackID).Warn("failed to send message")
			failed++
		}
	}
	return failedDeliveries(failed, len(users))
}

// names resolves user ids to display names, keeping the id when lookup fails.
func (s *JobsService) names(ctx context.Context, ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id
		if user, err := s.users.Get(ctx, id); err == nil {
			names[i] = user.Name()
		}
	}
	return names
}

func failedDeliveries(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d messages were not delivered", failed, total)
}

// Jobs returns every job by name, for on-demand runs.
func (s *JobsService) Jobs() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"sync-users":        s.SyncUsers,
		"periodic-messages": s.SendPeriodicMessages,
		"remind":            s.RemindAboutProgram,
		"announce-winners":  s.AnnounceWinners,
		"notify-new-points": s.NotifyAboutNewPoints,
		"report-top":        s.ReportTopN,
	}
}
