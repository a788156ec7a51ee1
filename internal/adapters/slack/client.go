// Package slack talks to the Slack Web API: it delivers messages, lists
// workspace members and opens the bot's modal forms.
package slack

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

// slackbotID is the built-in Slackbot, which users.list reports as a human.
const slackbotID = "USLACKBOT"

type Client struct {
	api *slack.Client
	log logrus.FieldLogger
}

var (
	_ ports.Notifier       = (*Client)(nil)
	_ ports.ThreadNotifier = (*Client)(nil)
	_ ports.Directory      = (*Client)(nil)
	_ ports.ViewOpener     = (*Client)(nil)
)

// NewClient builds a client authenticated with a bot token. Options are passed
// to slack.New, e.g. slack.OptionAPIURL in tests.
func NewClient(token string, log logrus.FieldLogger, options ...slack.Option) *Client {
	return &Client{
		api: slack.New(token, options...),
		log: log.WithField("component", "slack"),
	}
}

func (c *Client) Send(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to %s: %w", channelID, err)
	}
	return nil
}

func (c *Client) Reply(ctx context.Context, channelID, threadTS, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return fmt.Errorf("failed to reply in %s: %w", channelID, err)
	}
	return nil
}

func (c *Client) ListMembers(ctx context.Context) ([]*domain.User, error) {
	members, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.User, 0, len(members))
	for _, member := range members {
		users = append(users, userFromMember(member))
	}
	c.log.WithField("count", len(users)).Debug("workspace members listed")
	return users, nil
}

func userFromMember(member slack.User) *domain.User {
	realName := member.RealName
	if realName == "" {
		realName = member.Profile.RealName
	}
	return &domain.User{
		SlackID:     member.ID,
		DisplayName: member.Profile.DisplayName,
		RealName:    realName,
		IsBot:       member.IsBot || member.ID == slackbotID,
		Deleted:     member.Deleted,
	}
}

func (c *Client) OpenVotingModal(ctx context.Context, triggerID string) error {
	return c.openView(ctx, triggerID, VotingModal())
}

func (c *Client) OpenCommentsModal(ctx context.Context, triggerID string) error {
	return c.openView(ctx, triggerID, CommentsModal())
}

func (c *Client) openView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to open %s view: %w", view.CallbackID, err)
	}
	return nil
}
