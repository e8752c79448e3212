package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/goalraiders/goalraiders/internal/models"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts due-task notifications to a Discord channel.
type DiscordNotifier struct {
	session discordSession
	channel string
}

// NewDiscordNotifier builds a notifier for the given bot token and channel.
func NewDiscordNotifier(token, channel string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channel: channel}, nil
}

func (d *DiscordNotifier) TaskDue(ctx context.Context, task *models.Task) error {
	if _, err := d.session.ChannelMessageSend(d.channel, dueMessage(task)); err != nil {
		return fmt.Errorf("notify: discord send to %s: %w", d.channel, err)
	}
	return nil
}
