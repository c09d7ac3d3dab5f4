package cli

import (
	"fmt"

	orcslack "github.com/bcdannyboy/orcgreeks/slack"
	"github.com/spf13/cobra"
)

func newSlackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "slack",
		Short: "Serve /greeks, /skew and /help over Slack socket mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cfg.Slack.AppToken == "" || cfg.Slack.BotToken == "" {
				return fmt.Errorf("slack.app_token and slack.bot_token (or SLACK_APP_TOKEN and SLACK_BOT_TOKEN) must be set")
			}

			service := &orcslack.Service{
				MarketData:     app.MarketData,
				Skew:           cfg.Skew,
				DividendYield:  cfg.Analysis.DividendYield,
				ClosestStrikes: cfg.Analysis.ClosestStrikes,
				Options:        app.analysisOptions(app.Logger, false),
			}
			bot := orcslack.NewSlackBot(cfg.Slack.AppToken, cfg.Slack.BotToken, cfg.Slack.Debug, service, app.Logger)
			app.Logger.Info().Msg("starting slack bot")
			return bot.Start(cmd.Context())
		},
	}
}
