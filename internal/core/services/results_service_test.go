package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

func TestPointsForUserUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.results.PointsForUser(context.Background(), "NOBODY", env.periods.CurrentMonth())
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestPointsForUserWithoutVotes(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "T1")

	got, err := env.results.PointsForUser(context.Background(), "T1", env.periods.CurrentMonth())
	require.NoError(t, err)
	assert.Equal(t, points(0, 0, 0), got)
}

func TestTotalPoints(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "V1", "V2", "T1", "T2")
	env.addUser(t, &domain.User{SlackID: "BOT", IsBot: true})
	ctx := context.Background()

	env.vote(t, "V1", "T1", 0, 1, 2)
	env.vote(t, "V2", "T1", 1, 1, 1)
	env.vote(t, "V1", "T2", 3, 0, 0)

	totals, err := env.results.TotalPoints(ctx, env.periods.CurrentMonth(), true)
	require.NoError(t, err)
	assert.Len(t, totals, 4)
	assert.Equal(t, points(1, 2, 3), totals["T1"])
	assert.Equal(t, points(3, 0, 0), totals["T2"])
	assert.Equal(t, points(0, 0, 0), totals["V1"])

	withBots, err := env.results.TotalPoints(ctx, env.periods.CurrentMonth(), false)
	require.NoError(t, err)
	assert.Contains(t, withBots, "BOT")
}

func TestWinnersTies(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "V1", "V2", "T1", "T2")
	ctx := context.Background()

	env.vote(t, "V1", "T1", 2, 1, 0)
	env.vote(t, "V2", "T2", 2, 0, 1)

	winners, err := env.results.Winners(ctx, env.periods.CurrentMonth())
	require.NoError(t, err)
	require.Len(t, winners, len(domain.Categories))

	teamUp := winners[domain.CategoryTeamUpToWin]
	assert.Equal(t, 2, teamUp.Points)
	assert.Equal(t, []string{"T1", "T2"}, teamUp.Users)

	act := winners[domain.CategoryActToDeliver]
	assert.Equal(t, 1, act.Points)
	assert.Equal(t, []string{"T1"}, act.Users)
}

func TestWinnersAgreeWithTotals(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "V1", "V2", "V3", "T1", "T2")
	ctx := context.Background()

	env.vote(t, "V1", "T1", 1, 2, 0)
	env.vote(t, "V2", "T2", 0, 3, 0)
	env.vote(t, "V3", "T1", 0, 0, 3)
	env.vote(t, "V3", "T2", 3, 0, 0)

	period := env.periods.CurrentMonth()
	totals, err := env.results.TotalPoints(ctx, period, true)
	require.NoError(t, err)
	winners, err := env.results.Winners(ctx, period)
	require.NoError(t, err)

	for _, category := range domain.Categories {
		winner := winners[category]
		best := 0
		for _, p := range totals {
			if p[category] > best {
				best = p[category]
			}
		}
		assert.Equal(t, best, winner.Points, category)
		for _, user := range winner.Users {
			assert.Equal(t, winner.Points, totals[user][category], category)
		}
	}
}

func TestWinnersWithoutVotes(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "U1", "U2")
	env.addUser(t, &domain.User{SlackID: "BOT", IsBot: true})

	winners, err := env.results.Winners(context.Background(), env.periods.CurrentMonth())
	require.NoError(t, err)
	for _, category := range domain.Categories {
		assert.Equal(t, 0, winners[category].Points)
		assert.Equal(t, []string{"U1", "U2"}, winners[category].Users)
	}
}

func TestTopN(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "A", "B", "C", "D", "V1", "V2", "V3")
	ctx := context.Background()

	env.vote(t, "V1", "C", 3, 0, 0)
	env.vote(t, "V2", "C", 3, 0, 0)
	env.vote(t, "V3", "A", 2, 1, 0)
	env.vote(t, "V1", "B", 2, 0, 1)
	env.vote(t, "V2", "D", 1, 1, 1)

	top, err := env.results.TopN(ctx, env.periods.CurrentHalfYear(), 3)
	require.NoError(t, err)

	entries := top[domain.CategoryTeamUpToWin]
	require.Len(t, entries, 3)
	assert.Equal(t, domain.RankEntry{UserID: "C", Points: 6}, entries[0])
	assert.Equal(t, domain.RankEntry{UserID: "A", Points: 2}, entries[1])
	assert.Equal(t, domain.RankEntry{UserID: "B", Points: 2}, entries[2])

	all, err := env.results.TopN(ctx, env.periods.CurrentHalfYear(), 0)
	require.NoError(t, err)
	assert.Len(t, all[domain.CategoryDisruptToGrow], DefaultTopN)
}

func TestTopNHalfYearSpansMonths(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "V1", "T1")
	ctx := context.Background()

	env.clock.Set(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	env.vote(t, "V1", "T1", 3, 0, 0)
	env.clock.Set(time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC))
	env.vote(t, "V1", "T1", 3, 0, 0)

	top, err := env.results.TopN(ctx, env.periods.CurrentHalfYear(), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.RankEntry{{UserID: "T1", Points: 6}}, top[domain.CategoryTeamUpToWin])

	env.clock.Set(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	top, err = env.results.TopN(ctx, env.periods.CurrentHalfYear(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, top[domain.CategoryTeamUpToWin][0].Points)
}

func TestPointsNotificationBatch(t *testing.T) {
	env := newTestEnv(t)
	env.addUsers(t, "V1", "V2", "T1", "T2", "T3")
	ctx := context.Background()

	env.vote(t, "V1", "T3", 3, 0, 0)

	env.clock.Set(time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC))
	env.vote(t, "V1", "T1", 0, 1, 2)
	env.vote(t, "V2", "T1", 1, 1, 1)
	env.vote(t, "V2", "T2", 3, 0, 0)

	batch, err := env.results.PointsNotificationBatch(ctx, env.periods.Today().Start)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	assert.Equal(t, "T1", batch[0].UserID)
	assert.Equal(t, 2, batch[0].Votes)
	assert.Equal(t, points(1, 2, 3), batch[0].Points)
	assert.Equal(t, "T2", batch[1].UserID)
	assert.Equal(t, 1, batch[1].Votes)

	// An update to an older vote counts as new.
	env.vote(t, "V1", "T3", 0, 0, 3)
	batch, err = env.results.PointsNotificationBatch(ctx, env.periods.Today().Start)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}
