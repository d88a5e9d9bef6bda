package integration

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/mellow-bot/mellow/internal/db/models"
)

// DefaultCommandPrefix is used when the bot settings carry no prefix.
const DefaultCommandPrefix = "!"

// BotOptions are the settings the Discord client starts with.
type BotOptions struct {
	Token                  string
	OwnerID                string
	CommandPrefix          string
	ChannelName            string
	UnknownCommandResponse bool
	DeleteCommandMessages  bool
	SilentTimeout          bool
}

// LoadBotOptions refreshes the bot domain and reads its options. A domain that
// was never saved yields the defaults.
func LoadBotOptions(ctx context.Context, settings Settings) (BotOptions, error) {
	model, err := settings.GetSettings(ctx, models.DomainBot)
	if err != nil {
		return BotOptions{}, pkgerrors.Wrap(err, "can't load bot settings")
	}

	opts := BotOptions{
		Token:         str(model.GetOrDefault("token", "")),
		OwnerID:       str(model.GetOrDefault("ownerid", "")),
		CommandPrefix: str(model.GetOrDefault("commandprefix", DefaultCommandPrefix)),
		ChannelName:   strings.TrimSpace(str(model.GetOrDefault("channelname", ""))),
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"unknowncommandresponse", &opts.UnknownCommandResponse},
		{"deletecommandmessages", &opts.DeleteCommandMessages},
		{"silenttimeout", &opts.SilentTimeout},
	}

	for _, flag := range flags {
		if *flag.dst, err = model.GetBooleanOrDefault(flag.name, false); err != nil {
			return BotOptions{}, pkgerrors.Wrap(err, flag.name)
		}
	}

	return opts, nil
}

// AllowsChannel reports whether commands may run in channel. Without a
// configured channel name every channel is allowed.
func (o BotOptions) AllowsChannel(channel string) bool {
	if o.ChannelName == "" || channel == "" {
		return true
	}

	return strings.EqualFold(channel, o.ChannelName)
}

// str formats scalar attributes the way they were entered in the panel.
func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
