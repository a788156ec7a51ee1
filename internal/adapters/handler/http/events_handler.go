package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack/slackevents"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

// Keywords that make the bot explain the awards program in a thread.
var programKeywords = []string{"wyróżnień", "wyroznien"}

type EventsHandler struct {
	users    ports.UserService
	notifier ports.Notifier
	threads  ports.ThreadNotifier
	renderer ports.Renderer
	log      logrus.FieldLogger
}

func NewEventsHandler(
	users ports.UserService,
	notifier ports.Notifier,
	threads ports.ThreadNotifier,
	renderer ports.Renderer,
	log logrus.FieldLogger,
) *EventsHandler {
	return &EventsHandler{
		users:    users,
		notifier: notifier,
		threads:  threads,
		renderer: renderer,
		log:      log.WithField("component", "events"),
	}
}

func (h *EventsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// The signature middleware already authenticated the request.
	event, err := slackevents.ParseEvent(body, slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "not a valid event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		challenge, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent)
		if !ok {
			http.Error(w, "not a valid event", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"challenge": challenge.Challenge})
		return
	case slackevents.CallbackEvent:
		// Retries are acknowledged without replying a second time.
		if r.Header.Get("X-Slack-Retry-Num") != "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if message, ok := event.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			h.onMessage(r.Context(), message)
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Error(w, "not a valid event", http.StatusBadRequest)
}

// onMessage answers a human message mentioning the program with a thread
// reply and sends the author the program description.
func (h *EventsHandler) onMessage(ctx context.Context, message *slackevents.MessageEvent) {
	if message.BotID != "" || message.SubType != "" || message.User == "" {
		return
	}
	if !containsKeywords(message.Text) {
		return
	}

	user, err := h.users.Get(ctx, message.User)
	if err != nil {
		h.log.WithError(err).WithField("user", message.User).Warn("message from unknown user")
		return
	}
	if user.IsBot {
		return
	}

	log := h.log.WithFields(logrus.Fields{"user": user.SlackID, "channel": message.Channel})

	reply, err := h.renderer.Render(ports.TextAboutThreadReply, nil)
	if err == nil {
		err = h.threads.Reply(ctx, message.Channel, message.TimeStamp, reply)
	}
	if err != nil {
		log.WithError(err).Warn("failed to reply in thread")
	}

	greeting, err := h.renderer.Render(ports.TextGreeting, ports.GreetingValues{Name: user.Name()})
	if err != nil {
		log.WithError(err).Warn("failed to render greeting")
		return
	}
	about, err := h.renderer.Render(ports.TextAbout, nil)
	if err != nil {
		log.WithError(err).Warn("failed to render about")
		return
	}
	if err := h.notifier.Send(ctx, user.SlackID, greeting+"\n"+about); err != nil {
		log.WithError(err).Warn("failed to send about message")
	}
}

func containsKeywords(text string) bool {
	text = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)
	for _, keyword := range programKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
