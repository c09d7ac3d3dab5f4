package orcslack

import (
	"context"
	"fmt"

	"github.com/bcdannyboy/orcgreeks/logging"
	"github.com/slack-go/slack"
)

// Poster is the part of the Slack client the handlers post through.
type Poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// CommandHandler turns one slash command into the reply text.
type CommandHandler interface {
	Reply(ctx context.Context, cmd slack.SlashCommand) (string, error)
}

type Handler struct {
	handlers map[string]CommandHandler
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		handlers: map[string]CommandHandler{
			"/help":   NewHelpHandler(),
			"/greeks": NewGreeksHandler(service),
			"/skew":   NewSkewHandler(service),
		},
	}
}

// Handle posts a working notice, computes the reply and posts it in the
// notice's thread. Errors are posted back to the channel as well. The logger
// is taken from ctx.
func (h *Handler) Handle(ctx context.Context, cmd slack.SlashCommand, client Poster) error {
	handler, ok := h.handlers[cmd.Command]
	if !ok {
		return fmt.Errorf("unknown command %s", cmd.Command)
	}

	logger := logging.FromContext(ctx).With().Str("command", cmd.Command).Str("text", cmd.Text).Logger()
	logger.Info().Msg("slash command")

	_, ts, err := client.PostMessage(cmd.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Running %s %s...", cmd.Command, cmd.Text), false))
	if err != nil {
		logger.Error().Err(err).Msg("posting notice")
		return err
	}

	reply, err := handler.Reply(ctx, cmd)
	if err != nil {
		logger.Warn().Err(err).Msg("command failed")
		reply = "Error: " + err.Error()
	}

	_, _, postErr := client.PostMessage(cmd.ChannelID,
		slack.MsgOptionText(reply, false),
		slack.MsgOptionTS(ts))
	if postErr != nil {
		logger.Error().Err(postErr).Msg("posting reply")
		return postErr
	}
	return err
}
