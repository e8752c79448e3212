package notify

import (
	"fmt"

	"github.com/goalraiders/goalraiders/internal/config"
)

// Build assembles a Notifier from configuration. Returns nil when no
// channel is configured; callers treat a nil Notifier as "don't notify".
func Build(cfg config.NotifyConfig) (Notifier, error) {
	var multi Multi
	if cfg.Command != "" {
		multi = append(multi, &CommandNotifier{Command: cfg.Command})
	}
	if cfg.Slack.Token != "" {
		if cfg.Slack.Channel == "" {
			return nil, fmt.Errorf("notify: slack.channel is required when slack.token is set")
		}
		multi = append(multi, NewSlackNotifier(cfg.Slack.Token, cfg.Slack.Channel))
	}
	if cfg.Discord.Token != "" {
		if cfg.Discord.Channel == "" {
			return nil, fmt.Errorf("notify: discord.channel is required when discord.token is set")
		}
		d, err := NewDiscordNotifier(cfg.Discord.Token, cfg.Discord.Channel)
		if err != nil {
			return nil, err
		}
		multi = append(multi, d)
	}
	if len(multi) == 0 {
		return nil, nil
	}
	return multi, nil
}
