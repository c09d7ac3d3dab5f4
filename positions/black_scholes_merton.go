package positions

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/orcgreeks/models"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pricer holds one Black-Scholes input tuple with d1 and d2 computed at
// construction. It is a value and never changes after NewPricer returns.
type Pricer struct {
	S     float64 // spot
	K     float64 // strike
	T     float64 // years to expiry
	R     float64 // risk-free rate
	Sigma float64 // annualised volatility
	D1    float64
	D2    float64

	sqrtT    float64
	discount float64 // e^(-rT)
}

func NewPricer(S, K, T, r, sigma float64) (Pricer, error) {
	if err := models.RequirePositive(
		models.NamedValue{Name: "spot", Value: S},
		models.NamedValue{Name: "strike", Value: K},
		models.NamedValue{Name: "time to expiry", Value: T},
		models.NamedValue{Name: "volatility", Value: sigma},
	); err != nil {
		return Pricer{}, err
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Pricer{}, &models.ParameterError{Name: "risk-free rate", Value: r}
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	return Pricer{
		S:        S,
		K:        K,
		T:        T,
		R:        r,
		Sigma:    sigma,
		D1:       d1,
		D2:       d1 - sigma*sqrtT,
		sqrtT:    sqrtT,
		discount: math.Exp(-r * T),
	}, nil
}

// NewPricerForContract prices a contract against a market snapshot.
func NewPricerForContract(snapshot models.MarketSnapshot, contract models.OptionContract) (Pricer, error) {
	return NewPricer(snapshot.Spot, contract.Strike, contract.YearsToExpiry, snapshot.RiskFreeRate, contract.ImpliedVol)
}

// Price returns the call and put values.
func (p Pricer) Price() (call, put float64) {
	call = p.S*normCDF(p.D1) - p.K*p.discount*normCDF(p.D2)
	put = -p.S*normCDF(-p.D1) + p.K*p.discount*normCDF(-p.D2)
	return call, put
}

func (p Pricer) PriceFor(t models.OptionType) (float64, error) {
	call, put := p.Price()
	switch t {
	case models.Call:
		return call, nil
	case models.Put:
		return put, nil
	}
	return 0, fmt.Errorf("%w: %v", models.ErrInvalidOptionType, t)
}

// IntrinsicValue is the payoff if exercised at the current spot.
func (p Pricer) IntrinsicValue(t models.OptionType) (float64, error) {
	switch t {
	case models.Call:
		return math.Max(0, p.S-p.K), nil
	case models.Put:
		return math.Max(0, p.K-p.S), nil
	}
	return 0, fmt.Errorf("%w: %v", models.ErrInvalidOptionType, t)
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
