package orcslack

import (
	"context"
	"log"

	"github.com/bcdannyboy/orcgreeks/logging"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
	logger       zerolog.Logger
}

func NewSlackBot(appToken, botToken string, debug bool, service *Service, logger zerolog.Logger) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketLogger := logger.With().Str("component", "socketmode").Logger()
	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(debug),
		socketmode.OptionLog(log.New(socketLogger, "", 0)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(service),
		logger:       logger,
	}
}

// Start dispatches slash commands until ctx is cancelled or the socket fails.
func (sb *SlackBot) Start(ctx context.Context) error {
	ctx = logging.WithLogger(ctx, logging.WithOperation(sb.logger, "slack"))
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				sb.logger.Info().Msg("connecting to slack")
			case socketmode.EventTypeConnected:
				sb.logger.Info().Msg("connected to slack")
			case socketmode.EventTypeSlashCommand:
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				sb.socketClient.Ack(*evt.Request)
				go sb.eventHandler.Handle(ctx, cmd, sb.socketClient)
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
