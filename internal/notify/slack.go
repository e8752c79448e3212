package notify

import (
	"context"
	"fmt"

	"github.com/goalraiders/goalraiders/internal/models"
	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackNotifier posts due-task notifications to a Slack channel.
type SlackNotifier struct {
	client  slackClient
	channel string
}

// NewSlackNotifier builds a notifier for the given bot token and channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slackapi.New(token),
		channel: channel,
	}
}

func (s *SlackNotifier) TaskDue(ctx context.Context, task *models.Task) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slackapi.MsgOptionText(dueMessage(task), false))
	if err != nil {
		return fmt.Errorf("notify: slack post to %s: %w", s.channel, err)
	}
	return nil
}
