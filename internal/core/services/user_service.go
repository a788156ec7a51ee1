package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

type UserService struct {
	repo      ports.UserRepository
	directory ports.Directory
	hrIDs     map[string]bool
	log       logrus.FieldLogger
}

// NewUserService builds the identity store facade. Members listed in hrIDs
// are flagged as HR on every sync.
func NewUserService(repo ports.UserRepository, directory ports.Directory, hrIDs []string, log logrus.FieldLogger) *UserService {
	hr := make(map[string]bool, len(hrIDs))
	for _, id := range hrIDs {
		hr[id] = true
	}
	return &UserService{
		repo:      repo,
		directory: directory,
		hrIDs:     hr,
		log:       log.WithField("component", "identity"),
	}
}

func (s *UserService) Get(ctx context.Context, slackID string) (*domain.User, error) {
	user, err := s.repo.GetBySlackID(ctx, slackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	return s.repo.List(ctx, filter)
}

// Sync copies the workspace member list into the repository and returns the
// number of members stored. A member that fails to save is logged and skipped.
func (s *UserService) Sync(ctx context.Context) (int, error) {
	members, err := s.directory.ListMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list workspace members: %w", err)
	}

	synced := 0
	for _, member := range members {
		if s.hrIDs[member.SlackID] {
			member.IsHR = true
		}
		if err := s.repo.Upsert(ctx, member); err != nil {
			s.log.WithError(err).WithField("slack_id", member.SlackID).Warn("failed to sync user")
			continue
		}
		synced++
	}

	s.log.WithField("count", synced).Info("users synced")
	return synced, nil
}
