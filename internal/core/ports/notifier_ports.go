package ports

import "context"

// Notifier delivers text to a chat channel or a user's direct messages.
type Notifier interface {
	Send(ctx context.Context, channelID, text string) error
}

// ThreadNotifier replies inside an existing message thread.
type ThreadNotifier interface {
	Reply(ctx context.Context, channelID, threadTS, text string) error
}

// ViewOpener shows modal forms in response to an interaction trigger.
type ViewOpener interface {
	OpenVotingModal(ctx context.Context, triggerID string) error
	OpenCommentsModal(ctx context.Context, triggerID string) error
}

// Renderer turns a template key and structured values into user-facing text.
type Renderer interface {
	Render(key string, values any) (string, error)
}
