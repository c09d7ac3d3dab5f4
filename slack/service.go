// Package orcslack serves Greeks and skew reports over Slack slash commands.
package orcslack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/bcdannyboy/orcgreeks/positions"
)

// Service runs analyses for the slash command handlers.
type Service struct {
	MarketData     positions.MarketData
	Skew           models.SkewParameters
	DividendYield  float64
	ClosestStrikes int
	Options        []positions.Option
}

func (s *Service) analysis(ctx context.Context, symbol string) (*positions.Analysis, error) {
	return positions.NewAnalysis(ctx, s.MarketData, symbol, s.Options...)
}

// codeBlock wraps rendered tables so Slack keeps their alignment.
func codeBlock(render func(*bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("rendering reply: %w", err)
	}
	return "```\n" + buf.String() + "```", nil
}
