package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
	"github.com/vncsmyrnk/votebot/internal/core/services"
)

// ReportBuilder renders the HR reports shared with the scheduled jobs.
type ReportBuilder interface {
	WinnersText(ctx context.Context, period domain.Period) (string, error)
	TopNText(ctx context.Context, period domain.Period) (string, error)
}

// SlashHandler answers slash commands. Answers are sent to the caller as a
// direct message; the HTTP response itself stays empty.
type SlashHandler struct {
	users    ports.UserService
	votes    ports.VoteService
	results  ports.ResultsService
	reports  ReportBuilder
	views    ports.ViewOpener
	notifier ports.Notifier
	renderer ports.Renderer
	periods  *services.PeriodCalculator
	log      logrus.FieldLogger
}

func NewSlashHandler(
	users ports.UserService,
	votes ports.VoteService,
	results ports.ResultsService,
	reports ReportBuilder,
	views ports.ViewOpener,
	notifier ports.Notifier,
	renderer ports.Renderer,
	periods *services.PeriodCalculator,
	log logrus.FieldLogger,
) *SlashHandler {
	return &SlashHandler{
		users:    users,
		votes:    votes,
		results:  results,
		reports:  reports,
		views:    views,
		notifier: notifier,
		renderer: renderer,
		periods:  periods,
		log:      log.WithField("component", "slash"),
	}
}

func (h *SlashHandler) Vote(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.parse(w, r)
	if !ok {
		return
	}
	if cmd.TriggerID == "" {
		http.Error(w, "missing trigger_id", http.StatusBadRequest)
		return
	}

	if err := h.views.OpenVotingModal(r.Context(), cmd.TriggerID); err != nil {
		h.fail(w, cmd, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CheckVotes sends the caller the votes they cast this month.
func (h *SlashHandler) CheckVotes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, user *domain.User) (string, error) {
		votes, err := h.votes.VotesByVoter(ctx, user.SlackID, h.periods.CurrentMonth())
		if err != nil {
			return "", err
		}

		values := make([]ports.YourVoteValues, 0, len(votes))
		for _, vote := range votes {
			values = append(values, ports.YourVoteValues{
				User:   h.name(ctx, vote.TargetID),
				Points: ports.CategoryPointsOf(vote.Points),
			})
		}
		return h.renderer.Render(ports.TextYourVotes, values)
	})
}

// CheckPoints sends the caller the points they received this month.
func (h *SlashHandler) CheckPoints(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, user *domain.User) (string, error) {
		points, err := h.results.PointsForUser(ctx, user.SlackID, h.periods.CurrentMonth())
		if err != nil {
			return "", err
		}
		return h.renderer.Render(ports.TextYourPoints, ports.CategoryPointsOf(points))
	})
}

func (h *SlashHandler) CheckWinners(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.hrOnly(func(ctx context.Context, _ *domain.User) (string, error) {
		return h.reports.WinnersText(ctx, h.periods.CurrentMonth())
	}))
}

func (h *SlashHandler) Top(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.hrOnly(func(ctx context.Context, _ *domain.User) (string, error) {
		return h.reports.TopNText(ctx, h.periods.CurrentHalfYear())
	}))
}

func (h *SlashHandler) About(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(context.Context, *domain.User) (string, error) {
		return h.renderer.Render(ports.TextAbout, nil)
	})
}

// CheckComments opens the user picker for HR; everyone else is told they
// lack permission.
func (h *SlashHandler) CheckComments(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.parse(w, r)
	if !ok {
		return
	}
	user, ok := h.caller(r.Context(), w, cmd)
	if !ok {
		return
	}

	if user.IsHR {
		if cmd.TriggerID == "" {
			http.Error(w, "missing trigger_id", http.StatusBadRequest)
			return
		}
		if err := h.views.OpenCommentsModal(r.Context(), cmd.TriggerID); err != nil {
			h.fail(w, cmd, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	h.send(r.Context(), w, cmd, user, func(context.Context, *domain.User) (string, error) {
		return h.renderer.Render(ports.TextNoPermissions, nil)
	})
}

type contentFunc func(ctx context.Context, user *domain.User) (string, error)

func (h *SlashHandler) hrOnly(content contentFunc) contentFunc {
	return func(ctx context.Context, user *domain.User) (string, error) {
		if !user.IsHR {
			return h.renderer.Render(ports.TextNoPermissions, nil)
		}
		return content(ctx, user)
	}
}

// respond resolves the caller and DMs them a greeting followed by content.
func (h *SlashHandler) respond(w http.ResponseWriter, r *http.Request, content contentFunc) {
	cmd, ok := h.parse(w, r)
	if !ok {
		return
	}
	user, ok := h.caller(r.Context(), w, cmd)
	if !ok {
		return
	}
	h.send(r.Context(), w, cmd, user, content)
}

func (h *SlashHandler) send(ctx context.Context, w http.ResponseWriter, cmd slack.SlashCommand, user *domain.User, content contentFunc) {
	greeting, err := h.renderer.Render(ports.TextGreeting, ports.GreetingValues{Name: user.Name()})
	if err != nil {
		h.fail(w, cmd, err)
		return
	}
	body, err := content(ctx, user)
	if err != nil {
		h.fail(w, cmd, err)
		return
	}

	text := strings.Join([]string{greeting, body}, "\n")
	if err := h.notifier.Send(ctx, user.SlackID, text); err != nil {
		h.fail(w, cmd, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *SlashHandler) parse(w http.ResponseWriter, r *http.Request) (slack.SlashCommand, bool) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return cmd, false
	}
	if cmd.UserID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return cmd, false
	}
	return cmd, true
}

func (h *SlashHandler) caller(ctx context.Context, w http.ResponseWriter, cmd slack.SlashCommand) (*domain.User, bool) {
	user, err := h.users.Get(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			h.log.WithField("user", cmd.UserID).Warn("command from unknown user")
			http.Error(w, "user does not exist", http.StatusBadRequest)
			return nil, false
		}
		h.fail(w, cmd, err)
		return nil, false
	}
	return user, true
}

func (h *SlashHandler) name(ctx context.Context, slackID string) string {
	if user, err := h.users.Get(ctx, slackID); err == nil {
		return user.Name()
	}
	return slackID
}

func (h *SlashHandler) fail(w http.ResponseWriter, cmd slack.SlashCommand, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"command": cmd.Command,
		"user":    cmd.UserID,
	}).Error("command failed")
	http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
}
