package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	slackadapter "github.com/vncsmyrnk/votebot/internal/adapters/slack"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
	"github.com/vncsmyrnk/votebot/internal/core/services"
)

// InteractiveHandler receives modal submissions: votes and the comments user
// picker.
type InteractiveHandler struct {
	users    ports.UserService
	votes    ports.VoteService
	notifier ports.Notifier
	renderer ports.Renderer
	periods  *services.PeriodCalculator
	log      logrus.FieldLogger
}

func NewInteractiveHandler(
	users ports.UserService,
	votes ports.VoteService,
	notifier ports.Notifier,
	renderer ports.Renderer,
	periods *services.PeriodCalculator,
	log logrus.FieldLogger,
) *InteractiveHandler {
	return &InteractiveHandler{
		users:    users,
		votes:    votes,
		notifier: notifier,
		renderer: renderer,
		periods:  periods,
		log:      log.WithField("component", "interactive"),
	}
}

func (h *InteractiveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	callback, err := slack.InteractionCallbackParse(r)
	if err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if callback.Type != slack.InteractionTypeViewSubmission {
		http.Error(w, "not a view submission", http.StatusBadRequest)
		return
	}

	if slackadapter.IsCommentsSubmission(callback.View) {
		h.showComments(r.Context(), w, callback)
		return
	}
	h.submitVote(r.Context(), w, callback)
}

func (h *InteractiveHandler) submitVote(ctx context.Context, w http.ResponseWriter, callback slack.InteractionCallback) {
	submission, err := slackadapter.ParseVoteSubmission(callback.View.State)
	if err != nil {
		if errors.Is(err, slackadapter.ErrMissingSelection) {
			writeViewErrors(w, domain.FieldSelectUser, "Select a user!")
			return
		}
		h.log.WithError(err).Warn("invalid view data")
		http.Error(w, "invalid view data", http.StatusBadRequest)
		return
	}

	vote, err := h.votes.SubmitVote(ctx, ports.SubmitVoteInput{
		VoterID:  callback.User.ID,
		TargetID: submission.TargetID,
		Points:   submission.Points,
		Comment:  submission.Comment,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeViewErrors(w, verr.Field, verr.Message())
			return
		}
		h.log.WithError(err).WithField("voter", callback.User.ID).Error("failed to submit vote")
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	if vote.Updated() {
		h.confirmUpdate(ctx, vote)
	}
	w.WriteHeader(http.StatusOK)
}

// confirmUpdate tells the voter their earlier vote was replaced. The vote is
// already stored, so failures are only logged.
func (h *InteractiveHandler) confirmUpdate(ctx context.Context, vote *domain.Vote) {
	target := vote.TargetID
	if user, err := h.users.Get(ctx, vote.TargetID); err == nil {
		target = user.Name()
	}

	text, err := h.renderer.Render(ports.TextVoteUpdated, ports.YourVoteValues{
		User:   target,
		Points: ports.CategoryPointsOf(vote.Points),
	})
	if err == nil {
		err = h.notifier.Send(ctx, vote.VoterID, text)
	}
	if err != nil {
		h.log.WithError(err).WithField("voter", vote.VoterID).Warn("failed to confirm vote update")
	}
}

func (h *InteractiveHandler) showComments(ctx context.Context, w http.ResponseWriter, callback slack.InteractionCallback) {
	targetID, err := slackadapter.SelectedUser(callback.View.State)
	if err != nil {
		writeViewErrors(w, domain.FieldSelectUser, "Select a user!")
		return
	}

	caller, err := h.users.Get(ctx, callback.User.ID)
	if err != nil {
		writeViewErrors(w, domain.FieldSelectUser, domain.NewValidationError(domain.FieldSelectUser, domain.ErrUnknownUser).Message())
		return
	}
	if !caller.IsHR {
		writeViewErrors(w, domain.FieldSelectUser, domain.NewValidationError(domain.FieldSelectUser, domain.ErrNoPermission).Message())
		return
	}

	target, err := h.users.Get(ctx, targetID)
	if err != nil {
		writeViewErrors(w, domain.FieldSelectUser, domain.NewValidationError(domain.FieldSelectUser, domain.ErrUnknownUser).Message())
		return
	}

	comments, err := h.votes.CommentsForTarget(ctx, target.SlackID, h.periods.CurrentHalfYear())
	if err == nil {
		var text string
		text, err = h.renderer.Render(ports.TextUserComments, ports.UserCommentsValues{
			User:     target.Name(),
			Comments: comments,
		})
		if err == nil {
			err = h.notifier.Send(ctx, caller.SlackID, text)
		}
	}
	if err != nil {
		h.log.WithError(err).WithField("target", target.SlackID).Error("failed to send comments")
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeViewErrors keeps the modal open and shows message next to field.
func writeViewErrors(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusOK, slack.NewErrorsViewSubmissionResponse(map[string]string{field: message}))
}
