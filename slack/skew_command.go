package orcslack

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/bcdannyboy/orcgreeks/positions"
	"github.com/bcdannyboy/orcgreeks/report"
	"github.com/slack-go/slack"
)

type SkewHandler struct {
	service *Service
}

func NewSkewHandler(service *Service) *SkewHandler {
	return &SkewHandler{service: service}
}

// Reply evaluates the skew for the indexed expiration. Without an index
// it lists the expirations so the user can pick one.
func (h *SkewHandler) Reply(ctx context.Context, cmd slack.SlashCommand) (string, error) {
	args := strings.Fields(cmd.Text)
	if len(args) < 1 || len(args) > 2 {
		return "", fmt.Errorf("usage: /skew <symbol> [expiration index]")
	}
	symbol := strings.ToUpper(args[0])

	analysis, err := h.service.analysis(ctx, symbol)
	if err != nil {
		return "", err
	}
	expirations := positions.Expirations(analysis.Contracts)
	if len(expirations) == 0 {
		return "", fmt.Errorf("%w: %s has no expirations", models.ErrDataUnavailable, symbol)
	}

	if len(args) == 1 {
		var sb strings.Builder
		sb.WriteString("Available expirations:\n")
		for i, exp := range expirations {
			fmt.Fprintf(&sb, "%d: %s\n", i, exp.Format("2006-01-02"))
		}
		fmt.Fprintf(&sb, "Run /skew %s <index>", symbol)
		return sb.String(), nil
	}

	idx, err := strconv.Atoi(args[1])
	if err != nil || idx < 0 || idx >= len(expirations) {
		return "", fmt.Errorf("expiration index must be between 0 and %d", len(expirations)-1)
	}

	points, err := analysis.SkewForExpiration(expirations[idx], h.service.Skew, h.service.DividendYield)
	if points == nil && err != nil {
		return "", err
	}

	return codeBlock(func(buf *bytes.Buffer) error {
		fmt.Fprintf(buf, "%s %s\n", symbol, expirations[idx].Format("2006-01-02"))
		return report.WriteSkewTable(buf, points)
	})
}
