package orcslack

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bcdannyboy/orcgreeks/report"
	"github.com/slack-go/slack"
	"go.uber.org/multierr"
)

type GreeksHandler struct {
	service *Service
}

func NewGreeksHandler(service *Service) *GreeksHandler {
	return &GreeksHandler{service: service}
}

func (h *GreeksHandler) Reply(ctx context.Context, cmd slack.SlashCommand) (string, error) {
	args := strings.Fields(cmd.Text)
	if len(args) < 1 || len(args) > 2 {
		return "", fmt.Errorf("usage: /greeks <symbol> [closest]")
	}

	symbol := strings.ToUpper(args[0])
	closest := h.service.ClosestStrikes
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("closest must be a positive integer, got %q", args[1])
		}
		closest = n
	}

	analysis, err := h.service.analysis(ctx, symbol)
	if err != nil {
		return "", err
	}
	records, err := analysis.CalculateGreeks()
	failed := len(multierr.Errors(err))
	calls, puts := analysis.ClosestStrikes(records, closest)

	return codeBlock(func(buf *bytes.Buffer) error {
		fmt.Fprintf(buf, "%s spot %.2f, rate %.4f\n", symbol, analysis.Snapshot.Spot, analysis.Snapshot.RiskFreeRate)
		if failed > 0 {
			fmt.Fprintf(buf, "%d contracts failed\n", failed)
		}
		fmt.Fprint(buf, "\ncalls\n")
		if err := report.WriteGreeksTable(buf, calls); err != nil {
			return err
		}
		fmt.Fprint(buf, "\nputs\n")
		return report.WriteGreeksTable(buf, puts)
	})
}
