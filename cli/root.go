// Package cli provides the command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bcdannyboy/orcgreeks/config"
	"github.com/bcdannyboy/orcgreeks/logging"
	"github.com/bcdannyboy/orcgreeks/positions"
	"github.com/bcdannyboy/orcgreeks/tradier"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the command dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	MarketData positions.MarketData
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
}

// NewApp wires a Tradier provider from the configuration.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	client := tradier.NewClient(tradier.Config{
		Token:        cfg.Tradier.Token,
		BaseURL:      cfg.Tradier.BaseURL,
		Timeout:      cfg.Tradier.Timeout,
		RateProxy:    cfg.Analysis.RateProxy,
		RiskFreeRate: cfg.FixedRate(),
		MinDTE:       cfg.Tradier.MinDTE,
		MaxDTE:       cfg.Tradier.MaxDTE,
	}, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		MarketData: client,
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
	}
}

// NewRootCmd creates the root command. Configuration is loaded in the
// persistent pre-run so --config and --debug apply to every subcommand.
func NewRootCmd() *cobra.Command {
	app := &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	rootCmd := &cobra.Command{
		Use:   "orcgreeks",
		Short: "Black-Scholes Greeks and Orc Wing volatility skew for an option chain",
		Long: `orcgreeks prices an underlying's option chain with Black-Scholes,
computes first and second order Greeks for every contract, and evaluates
an Orc Wing volatility skew curve over the out of the money strikes of one
expiration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config != nil {
				return nil
			}
			dir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Log.Level = "debug"
			}
			logger := logging.NewLogger(cfg.Log)
			wired := NewApp(cfg, logger)
			app.Config, app.Logger, app.MarketData = wired.Config, wired.Logger, wired.MarketData
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/orcgreeks)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	AddCommands(rootCmd, app)
	return rootCmd
}

// AddCommands attaches every subcommand to root using app's dependencies.
func AddCommands(root *cobra.Command, app *App) {
	root.AddCommand(newGreeksCmd(app))
	root.AddCommand(newSkewCmd(app))
	root.AddCommand(newExpirationsCmd(app))
	root.AddCommand(newPriceCmd(app))
	root.AddCommand(newSlackCmd(app))
}

func (a *App) analysisOptions(logger zerolog.Logger, showProgress bool) []positions.Option {
	opts := []positions.Option{
		positions.WithLogger(logger),
		positions.WithWorkers(a.Config.Analysis.Workers),
	}
	if showProgress {
		opts = append(opts, positions.WithProgress(positions.BarProgress(a.Err)))
	}
	return opts
}

func (a *App) loadAnalysis(cmd *cobra.Command, symbol string, showProgress bool) (*positions.Analysis, error) {
	if symbol == "" {
		symbol = a.Config.Analysis.Symbol
	}
	logger := logging.WithOperation(logging.WithSymbol(a.Logger, symbol), cmd.Name())
	analysis, err := positions.NewAnalysis(cmd.Context(), a.MarketData, symbol, a.analysisOptions(logger, showProgress)...)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Float64("spot", analysis.Snapshot.Spot).
		Float64("rate", analysis.Snapshot.RiskFreeRate).
		Int("contracts", len(analysis.Contracts)).
		Msg("market data loaded")
	return analysis, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
