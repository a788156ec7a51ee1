package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

type voteService struct {
	userRepo ports.UserRepository
	voteRepo ports.VoteRepository
	periods  *PeriodCalculator
	log      logrus.FieldLogger
}

func NewVoteService(userRepo ports.UserRepository, voteRepo ports.VoteRepository, periods *PeriodCalculator, log logrus.FieldLogger) ports.VoteService {
	return &voteService{
		userRepo: userRepo,
		voteRepo: voteRepo,
		periods:  periods,
		log:      log.WithField("component", "vote_ledger"),
	}
}

func (s *voteService) SubmitVote(ctx context.Context, input ports.SubmitVoteInput) (*domain.Vote, error) {
	if input.VoterID == input.TargetID {
		return nil, domain.NewValidationError(domain.FieldSelectUser, domain.ErrSelfVote)
	}

	voter, err := s.resolve(ctx, input.VoterID)
	if err != nil {
		return nil, err
	}
	target, err := s.resolve(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}
	if target.IsBot {
		return nil, domain.NewValidationError(domain.FieldSelectUser, domain.ErrBotTarget)
	}

	if err := input.Points.Validate(); err != nil {
		return nil, domain.NewValidationError(string(domain.Categories[len(domain.Categories)-1]), err)
	}

	now := s.periods.Now()
	vote := &domain.Vote{
		ID:          uuid.New(),
		VoterID:     voter.SlackID,
		TargetID:    target.SlackID,
		Points:      input.Points.Normalized(),
		Comment:     input.Comment,
		PeriodStart: domain.MonthOf(now).Start,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	saved, err := s.voteRepo.Upsert(ctx, vote)
	if err != nil {
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"voter":   saved.VoterID,
		"target":  saved.TargetID,
		"updated": saved.Updated(),
	}).Info("vote saved")

	return saved, nil
}

// resolve maps an unknown or deleted user to a validation failure.
func (s *voteService) resolve(ctx context.Context, slackID string) (*domain.User, error) {
	user, err := s.userRepo.GetBySlackID(ctx, slackID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			return nil, domain.NewValidationError(domain.FieldSelectUser, domain.ErrUnknownUser)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", slackID, err)
	}
	if user.Deleted {
		return nil, domain.NewValidationError(domain.FieldSelectUser, domain.ErrUnknownUser)
	}
	return user, nil
}

func (s *voteService) VotesByVoter(ctx context.Context, voterID string, period domain.Period) ([]*domain.Vote, error) {
	return s.voteRepo.ListByVoter(ctx, voterID, period)
}

func (s *voteService) VotesByTarget(ctx context.Context, targetID string, period domain.Period) ([]*domain.Vote, error) {
	return s.voteRepo.ListByTarget(ctx, targetID, period)
}

func (s *voteService) CommentsForTarget(ctx context.Context, targetID string, period domain.Period) ([]ports.Comment, error) {
	votes, err := s.voteRepo.ListByTarget(ctx, targetID, period)
	if err != nil {
		return nil, err
	}

	var comments []ports.Comment
	for _, vote := range votes {
		if vote.Comment == "" {
			continue
		}
		author := vote.VoterID
		if voter, err := s.userRepo.GetBySlackID(ctx, vote.VoterID); err == nil {
			author = voter.Name()
		}
		comments = append(comments, ports.Comment{Author: author, Text: vote.Comment})
	}
	return comments, nil
}
