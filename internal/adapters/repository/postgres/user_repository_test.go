package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db).(*UserRepository)
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetBySlackID(ctx, "U404")
		assert.ErrorIs(t, err, domain.ErrUnknownUser)
	})

	t.Run("upsert keeps identity and hr flag", func(t *testing.T) {
		hr := &domain.User{SlackID: "UHR", RealName: "Anna Nowak", IsHR: true}
		require.NoError(t, repo.Upsert(ctx, hr))

		again := &domain.User{SlackID: "UHR", RealName: "Anna Kowalska"}
		require.NoError(t, repo.Upsert(ctx, again))
		assert.Equal(t, hr.ID, again.ID)
		assert.True(t, again.IsHR)

		stored, err := repo.GetBySlackID(ctx, "UHR")
		require.NoError(t, err)
		assert.Equal(t, "Anna Kowalska", stored.RealName)
		assert.True(t, stored.IsHR)
	})

	t.Run("list filters", func(t *testing.T) {
		createUser(t, repo, "U1", false)
		createUser(t, repo, "UBOT", true)
		require.NoError(t, repo.Upsert(ctx, &domain.User{SlackID: "UGONE", Deleted: true}))

		all, err := repo.List(ctx, domain.UserFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		humans, err := repo.List(ctx, domain.UserFilter{ExcludeBots: true})
		require.NoError(t, err)
		assert.Len(t, humans, 2)

		hr, err := repo.List(ctx, domain.UserFilter{HROnly: true})
		require.NoError(t, err)
		require.Len(t, hr, 1)
		assert.Equal(t, "UHR", hr[0].SlackID)
	})
}
