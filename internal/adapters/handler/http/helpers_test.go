package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votebot/internal/adapters/repository/sqlite"
	slackadapter "github.com/vncsmyrnk/votebot/internal/adapters/slack"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
	"github.com/vncsmyrnk/votebot/internal/core/services"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

type message struct {
	Channel  string
	ThreadTS string
	Text     string
}

// fakeSlack records everything the handlers push to Slack.
type fakeSlack struct {
	mu      sync.Mutex
	sent    []message
	replies []message
	views   []string
	failAll bool
}

func (f *fakeSlack) Send(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("channel_not_found")
	}
	f.sent = append(f.sent, message{Channel: channelID, Text: text})
	return nil
}

func (f *fakeSlack) Reply(_ context.Context, channelID, threadTS, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, message{Channel: channelID, ThreadTS: threadTS, Text: text})
	return nil
}

func (f *fakeSlack) OpenVotingModal(_ context.Context, triggerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, slackadapter.CallbackVote+":"+triggerID)
	return nil
}

func (f *fakeSlack) OpenCommentsModal(_ context.Context, triggerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, slackadapter.CallbackCheckComments+":"+triggerID)
	return nil
}

// fakeRenderer prints the key and the values so tests can assert on content.
type fakeRenderer struct{}

func (fakeRenderer) Render(key string, values any) (string, error) {
	if values == nil {
		return key, nil
	}
	return fmt.Sprintf("%s %+v", key, values), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	handler http.Handler
	slack   *fakeSlack
	clock   *fakeClock
	users   ports.UserRepository
	votes   ports.VoteService
	hook    *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, hook := test.NewNullLogger()
	clock := &fakeClock{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	periods := services.NewPeriodCalculator(clock.Now)
	userRepo := sqlite.NewUserRepository(db)
	voteRepo := sqlite.NewVoteRepository(db)

	users := services.NewUserService(userRepo, nil, nil, log)
	votes := services.NewVoteService(userRepo, voteRepo, periods, log)
	results := services.NewResultsService(userRepo, voteRepo)
	fake := &fakeSlack{}
	renderer := fakeRenderer{}
	jobs := services.NewJobsService(users, results, fake, renderer, periods, 3, log)

	handler := NewHandler(Handlers{
		Index:       NewIndexHandler("test"),
		Slash:       NewSlashHandler(users, votes, results, jobs, fake, fake, renderer, periods, log),
		Interactive: NewInteractiveHandler(users, votes, fake, renderer, periods, log),
		Events:      NewEventsHandler(users, fake, fake, renderer, log),
	}, slackadapter.NewVerifier(testSigningSecret), log)

	srv := &testServer{
		handler: handler,
		slack:   fake,
		clock:   clock,
		users:   userRepo,
		votes:   votes,
		hook:    hook,
	}
	srv.addUser(t, &domain.User{SlackID: "U1", RealName: "Ann"})
	srv.addUser(t, &domain.User{SlackID: "U2", RealName: "Bob"})
	srv.addUser(t, &domain.User{SlackID: "UHR", RealName: "Helen", IsHR: true})
	srv.addUser(t, &domain.User{SlackID: "UBOT", RealName: "Robot", IsBot: true})
	return srv
}

func (s *testServer) addUser(t *testing.T, user *domain.User) {
	t.Helper()
	require.NoError(t, s.users.Upsert(context.Background(), user))
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// post sends a request signed with the test signing secret.
func (s *testServer) post(path, contentType, body string) *httptest.ResponseRecorder {
	req := signedRequest(path, contentType, body, testSigningSecret)
	return s.do(req)
}

func (s *testServer) command(path, userID, triggerID string) *httptest.ResponseRecorder {
	form := url.Values{
		"command":    {"/" + strings.TrimPrefix(path, "/slack/commands/")},
		"user_id":    {userID},
		"trigger_id": {triggerID},
	}
	return s.post(path, "application/x-www-form-urlencoded", form.Encode())
}

func (s *testServer) interactive(payload any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	form := url.Values{"payload": {string(raw)}}
	return s.post("/slack/interactive", "application/x-www-form-urlencoded", form.Encode())
}

func (s *testServer) event(body string) *httptest.ResponseRecorder {
	return s.post("/slack/events", "application/json", body)
}

func (s *testServer) sent() []message {
	s.slack.mu.Lock()
	defer s.slack.mu.Unlock()
	return append([]message(nil), s.slack.sent...)
}

func (s *testServer) logged(msg string) bool {
	for _, entry := range s.hook.AllEntries() {
		if entry.Message == msg {
			return true
		}
	}
	return false
}

func signedRequest(path, contentType, body, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

// votePayload builds a view_submission of the voting modal. Negative points
// leave the category unselected.
func votePayload(voter, target string, teamUp, act, disrupt int, comment string) map[string]any {
	values := map[string]any{}
	if target != "" {
		values[slackadapter.BlockSelectUser] = map[string]any{
			slackadapter.ActionID(slackadapter.BlockSelectUser): map[string]any{
				"type":          "users_select",
				"selected_user": target,
			},
		}
	}
	for category, points := range map[domain.Category]int{
		domain.CategoryTeamUpToWin:   teamUp,
		domain.CategoryActToDeliver:  act,
		domain.CategoryDisruptToGrow: disrupt,
	} {
		if points < 0 {
			continue
		}
		block := string(category)
		values[block] = map[string]any{
			slackadapter.ActionID(block): map[string]any{
				"type":            "static_select",
				"selected_option": map[string]any{"value": fmt.Sprintf("value-%d", points)},
			},
		}
	}
	values[slackadapter.BlockComment] = map[string]any{
		slackadapter.ActionID(slackadapter.BlockComment): map[string]any{
			"type":  "plain_text_input",
			"value": comment,
		},
	}

	return map[string]any{
		"type": "view_submission",
		"user": map[string]any{"id": voter},
		"view": map[string]any{
			"callback_id": slackadapter.CallbackVote,
			"state":       map[string]any{"values": values},
		},
	}
}

func commentsPayload(caller, target string) map[string]any {
	return map[string]any{
		"type": "view_submission",
		"user": map[string]any{"id": caller},
		"view": map[string]any{
			"callback_id": slackadapter.CallbackCheckComments,
			"state": map[string]any{"values": map[string]any{
				slackadapter.BlockSelectUser: map[string]any{
					slackadapter.ActionID(slackadapter.BlockSelectUser): map[string]any{
						"type":          "users_select",
						"selected_user": target,
					},
				},
			}},
		},
	}
}
