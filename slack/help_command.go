package orcslack

import (
	"context"

	"github.com/slack-go/slack"
)

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) Reply(ctx context.Context, cmd slack.SlashCommand) (string, error) {
	return "Available commands:\n" +
		"/help - Show this help message\n" +
		"/greeks <symbol> [closest] - Greeks at the strikes closest to spot\n" +
		"/skew <symbol> [expiration index] - Orc Wing skew for one expiration; lists expirations when the index is omitted", nil
}
