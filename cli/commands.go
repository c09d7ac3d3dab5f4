package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/bcdannyboy/orcgreeks/positions"
	"github.com/bcdannyboy/orcgreeks/report"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type section struct {
	title   string
	records []positions.GreekRecord
}

func newGreeksCmd(app *App) *cobra.Command {
	var (
		symbol  string
		view    string
		closest int
		dte     []int
	)

	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Compute Greeks for every contract in the chain",
		Long: `Compute price and Greeks for every contract in the chain.

--view closest shows the contracts at the N strikes nearest spot.
--view dte shows the contracts at the expirations nearest each target (in days).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("closest") {
				closest = app.Config.Analysis.ClosestStrikes
			}
			if !cmd.Flags().Changed("dte") {
				dte = app.Config.Analysis.DTETargetsDays
			}

			asJSON := jsonOutput(cmd)
			analysis, err := app.loadAnalysis(cmd, symbol, !asJSON)
			if err != nil {
				return err
			}

			records, err := analysis.CalculateGreeks()
			if err != nil {
				app.Logger.Warn().Int("failed", len(multierr.Errors(err))).Msg("some contracts could not be priced")
			}

			var sections []section
			switch view {
			case "all":
				sections = []section{{"", records}}
			case "closest":
				calls, puts := analysis.ClosestStrikes(records, closest)
				sections = []section{{"calls", calls}, {"puts", puts}}
			case "dte":
				calls, puts := analysis.PickDTE(records, dte)
				sections = []section{{"calls", calls}, {"puts", puts}}
			default:
				return fmt.Errorf("unknown view %q (want all, closest or dte)", view)
			}

			if asJSON {
				var all []positions.GreekRecord
				for _, s := range sections {
					all = append(all, s.records...)
				}
				return report.WriteGreeksJSON(app.Out, all)
			}

			fmt.Fprintf(app.Out, "Current spot price is %f\n", analysis.Snapshot.Spot)
			for _, s := range sections {
				if s.title != "" {
					fmt.Fprintf(app.Out, "\n%s\n", s.title)
				}
				if err := report.WriteGreeksTable(app.Out, s.records); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (default from config)")
	cmd.Flags().StringVar(&view, "view", "all", "all, closest or dte")
	cmd.Flags().IntVar(&closest, "closest", 5, "number of strikes nearest spot for --view closest")
	cmd.Flags().IntSliceVar(&dte, "dte", positions.DefaultDTETargets, "day targets for --view dte")
	return cmd
}

func newSkewCmd(app *App) *cobra.Command {
	var (
		symbol   string
		index    int
		override models.SkewParameters
	)

	cmd := &cobra.Command{
		Use:   "skew",
		Short: "Evaluate the Orc Wing volatility skew for one expiration",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := skewParams(cmd, app.Config.Skew, override)
			if err := params.Validate(); err != nil {
				return err
			}

			analysis, err := app.loadAnalysis(cmd, symbol, false)
			if err != nil {
				return err
			}

			expirations := positions.Expirations(analysis.Contracts)
			var expiration time.Time
			if index >= 0 {
				if index >= len(expirations) {
					return fmt.Errorf("expiration index %d out of range [0, %d)", index, len(expirations))
				}
				expiration = expirations[index]
			} else {
				expiration, err = SelectExpiration(app.In, app.Out, expirations)
				if err != nil {
					return err
				}
			}

			points, err := analysis.SkewForExpiration(expiration, params, app.Config.Analysis.DividendYield)
			if points == nil && err != nil {
				return err
			}
			if err != nil {
				for _, e := range multierr.Errors(err) {
					var ood *models.OutOfDomainError
					if errors.As(e, &ood) {
						app.Logger.Warn().Float64("moneyness", ood.X).Msg("point outside every skew region")
						continue
					}
					app.Logger.Warn().Err(e).Msg("skew point dropped")
				}
			}

			if jsonOutput(cmd) {
				return report.WriteSkewJSON(app.Out, points)
			}
			fmt.Fprintf(app.Out, "Expiration %s\n", expiration.Format("2006-01-02"))
			return report.WriteSkewTable(app.Out, points)
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (default from config)")
	cmd.Flags().IntVar(&index, "expiration-index", -1, "expiration index; prompts when negative")
	cmd.Flags().Float64Var(&override.Vc, "vc", 0, "volatility at the central skew point")
	cmd.Flags().Float64Var(&override.Sc, "sc", 0, "slope at the central skew point")
	cmd.Flags().Float64Var(&override.Pc, "pc", 0, "put wing curvature")
	cmd.Flags().Float64Var(&override.Cc, "cc", 0, "call wing curvature")
	cmd.Flags().Float64Var(&override.Dc, "dc", 0, "down cutoff")
	cmd.Flags().Float64Var(&override.Uc, "uc", 0, "up cutoff")
	cmd.Flags().Float64Var(&override.Dsm, "dsm", 0, "down smoothing range")
	cmd.Flags().Float64Var(&override.Usm, "usm", 0, "up smoothing range")
	return cmd
}

// skewParams starts from the configured curve and replaces the parameters
// whose flags were set.
func skewParams(cmd *cobra.Command, base, override models.SkewParameters) models.SkewParameters {
	p := base
	for name, dst := range map[string]*float64{
		"vc": &p.Vc, "sc": &p.Sc, "pc": &p.Pc, "cc": &p.Cc,
		"dc": &p.Dc, "uc": &p.Uc, "dsm": &p.Dsm, "usm": &p.Usm,
	} {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetFloat64(name)
			*dst = v
		}
	}
	return p
}

func newExpirationsCmd(app *App) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "expirations",
		Short: "List the chain's expirations",
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := app.loadAnalysis(cmd, symbol, false)
			if err != nil {
				return err
			}
			for i, exp := range positions.Expirations(analysis.Contracts) {
				fmt.Fprintf(app.Out, "%d: %s\n", i, exp.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (default from config)")
	return cmd
}

func newPriceCmd(app *App) *cobra.Command {
	var (
		spot, strike, years, rate, vol float64
		typ                            string
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one option offline and print its Greeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			optionType, err := models.ParseOptionType(typ)
			if err != nil {
				return err
			}
			pricer, err := positions.NewPricer(spot, strike, years, rate, vol)
			if err != nil {
				return err
			}
			call, put := pricer.Price()
			set, err := positions.NewGreeks(pricer).All(optionType)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				price := call
				if optionType == models.Put {
					price = put
				}
				return report.WriteGreeksJSON(app.Out, []positions.GreekRecord{{
					Type:   optionType,
					Call:   optionType == models.Call,
					Strike: strike,
					DTE:    years,
					IV:     vol,
					Price:  price,
					Greeks: set,
				}})
			}

			fmt.Fprintf(app.Out, "Call: %.4f, Put: %.4f\n", call, put)
			fmt.Fprintf(app.Out, "d1: %.6f, d2: %.6f\n", pricer.D1, pricer.D2)
			greeks := set.Map()
			for _, name := range positions.GreekNames {
				fmt.Fprintf(app.Out, "%s: %.6f\n", name, greeks[name])
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&spot, "spot", 100, "underlying spot price")
	cmd.Flags().Float64Var(&strike, "strike", 105, "strike price")
	cmd.Flags().Float64Var(&years, "t", 0.5, "time to expiry in years")
	cmd.Flags().Float64Var(&rate, "rate", 0.03, "risk-free rate")
	cmd.Flags().Float64Var(&vol, "vol", 0.2, "annualised volatility")
	cmd.Flags().StringVar(&typ, "type", "call", "call or put")
	return cmd
}
