package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votebot/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type sentMessage struct {
	Channel string
	Text    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[string]bool
}

func (n *fakeNotifier) Send(_ context.Context, channelID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[channelID] {
		return errors.New("channel_not_found")
	}
	n.sent = append(n.sent, sentMessage{Channel: channelID, Text: text})
	return nil
}

func (n *fakeNotifier) channels() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.sent {
		out = append(out, m.Channel)
	}
	return out
}

// fakeRenderer prints the key and the values so tests can assert on content.
type fakeRenderer struct{}

func (fakeRenderer) Render(key string, values any) (string, error) {
	return fmt.Sprintf("%s %+v", key, values), nil
}

type fakeDirectory struct {
	members []*domain.User
	err     error
}

func (d *fakeDirectory) ListMembers(context.Context) ([]*domain.User, error) {
	return d.members, d.err
}

type testEnv struct {
	db      *sql.DB
	clock   *fakeClock
	periods *PeriodCalculator
	users   ports.UserRepository
	votes   ports.VoteRepository
	ledger  ports.VoteService
	results ports.ResultsService
	log     *logrus.Logger
	hook    *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, hook := test.NewNullLogger()
	clock := &fakeClock{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	periods := NewPeriodCalculator(clock.Now)
	users := sqlite.NewUserRepository(db)
	votes := sqlite.NewVoteRepository(db)

	return &testEnv{
		db:      db,
		clock:   clock,
		periods: periods,
		users:   users,
		votes:   votes,
		ledger:  NewVoteService(users, votes, periods, log),
		results: NewResultsService(users, votes),
		log:     log,
		hook:    hook,
	}
}

func (e *testEnv) addUser(t *testing.T, user *domain.User) {
	t.Helper()
	require.NoError(t, e.users.Upsert(context.Background(), user))
}

func (e *testEnv) addUsers(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		e.addUser(t, &domain.User{SlackID: id, RealName: "Name " + id})
	}
}

func (e *testEnv) vote(t *testing.T, voter, target string, teamUp, act, disrupt int) {
	t.Helper()
	_, err := e.ledger.SubmitVote(context.Background(), ports.SubmitVoteInput{
		VoterID:  voter,
		TargetID: target,
		Points:   points(teamUp, act, disrupt),
	})
	require.NoError(t, err)
}

func (e *testEnv) voteCount(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM votes").Scan(&count))
	return count
}

func points(teamUp, act, disrupt int) domain.Points {
	return domain.Points{
		domain.CategoryTeamUpToWin:   teamUp,
		domain.CategoryActToDeliver:  act,
		domain.CategoryDisruptToGrow: disrupt,
	}
}
