package positions

import (
	"fmt"

	"github.com/bcdannyboy/orcgreeks/models"
)

// Greeks computes sensitivities from a priced input tuple.
type Greeks struct {
	p      Pricer
	pdfD1  float64
	cdfD1  float64
	cdfD2  float64
	cdfND2 float64
}

func NewGreeks(p Pricer) Greeks {
	return Greeks{
		p:      p,
		pdfD1:  normPDF(p.D1),
		cdfD1:  normCDF(p.D1),
		cdfD2:  normCDF(p.D2),
		cdfND2: normCDF(-p.D2),
	}
}

func (g Greeks) Pricer() Pricer {
	return g.p
}

func invalidType(t models.OptionType) error {
	return fmt.Errorf("%w: %v", models.ErrInvalidOptionType, t)
}

func (g Greeks) Delta(t models.OptionType) (float64, error) {
	switch t {
	case models.Call:
		return g.cdfD1, nil
	case models.Put:
		return g.cdfD1 - 1, nil
	}
	return 0, invalidType(t)
}

// Gamma is the same for calls and puts.
func (g Greeks) Gamma() float64 {
	return g.pdfD1 / (g.p.S * g.p.Sigma * g.p.sqrtT)
}

// Vega is per unit of volatility, not per volatility point.
func (g Greeks) Vega() float64 {
	return g.p.S * g.pdfD1 * g.p.sqrtT
}

// Theta is per calendar day.
func (g Greeks) Theta(t models.OptionType) (float64, error) {
	decay := (-g.p.S * g.pdfD1 * g.p.Sigma) / (2 * g.p.sqrtT)
	carry := g.p.R * g.p.K * g.p.discount

	switch t {
	case models.Call:
		return (decay - carry*g.cdfD2) / models.DaysPerYear, nil
	case models.Put:
		return (decay + carry*g.cdfND2) / models.DaysPerYear, nil
	}
	return 0, invalidType(t)
}

func (g Greeks) Rho(t models.OptionType) (float64, error) {
	kt := g.p.K * g.p.T * g.p.discount

	switch t {
	case models.Call:
		return kt * g.cdfD2, nil
	case models.Put:
		return -kt * g.cdfND2, nil
	}
	return 0, invalidType(t)
}

func (g Greeks) Vomma() float64 {
	return g.Vega() * g.p.D1 * g.p.D2 / g.p.Sigma
}

func (g Greeks) Vanna() float64 {
	return -g.Vega() * g.p.D2 / (g.p.Sigma * g.p.S)
}

// Charm is the same for calls and puts under Black-Scholes with no dividends.
func (g Greeks) Charm() float64 {
	return -g.pdfD1 / (2 * g.p.sqrtT) * ((2*g.p.R)/g.p.Sigma - g.p.D2*g.p.Sigma)
}

func (g Greeks) PrimaryGreeks(t models.OptionType) (PrimaryGreeks, error) {
	if !t.Valid() {
		return PrimaryGreeks{}, invalidType(t)
	}
	delta, _ := g.Delta(t)
	theta, _ := g.Theta(t)
	rho, _ := g.Rho(t)
	return PrimaryGreeks{
		Delta: delta,
		Gamma: g.Gamma(),
		Vega:  g.Vega(),
		Theta: theta,
		Rho:   rho,
	}, nil
}

func (g Greeks) SecondaryGreeks() SecondaryGreeks {
	return SecondaryGreeks{
		Vomma: g.Vomma(),
		Vanna: g.Vanna(),
		Charm: g.Charm(),
	}
}

func (g Greeks) All(t models.OptionType) (GreekSet, error) {
	primary, err := g.PrimaryGreeks(t)
	if err != nil {
		return GreekSet{}, err
	}
	return GreekSet{PrimaryGreeks: primary, SecondaryGreeks: g.SecondaryGreeks()}, nil
}
