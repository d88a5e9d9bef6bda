package daemon

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/mellow-bot/mellow/internal/db/models"
	"github.com/mellow-bot/mellow/internal/integration"
)

// checkSettings logs what the bot would start with.
func (d *Daemon) checkSettings(ctx context.Context) {
	opts, err := integration.LoadBotOptions(ctx, d.db)
	if err != nil {
		log.Error().Err(err).Msg("can't read bot settings")

		return
	}

	if opts.Token == "" {
		log.Warn().Msg("no bot token configured, set one in the settings panel")
	} else {
		log.Info().Str("prefix", opts.CommandPrefix).Str("channel", opts.ChannelName).Msg("bot settings loaded")
	}

	log.Info().Strs("integrations", integration.Configured(ctx, d.db)).Msg("configured integrations")
}

// settingsSaved re-reads the bot view of the settings after the panel changed them.
func (d *Daemon) settingsSaved(domain string) {
	if domain != models.DomainBot && !slices.Contains(models.Integrations(), domain) {
		return
	}

	log.Info().Str("domain", domain).Msg("settings changed, reloading bot settings")
	d.checkSettings(context.Background())
}
