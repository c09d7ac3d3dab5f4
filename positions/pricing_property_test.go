package positions

import (
	"math"
	"testing"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func pricingProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	parameters.Rng.Seed(time.Now().UnixNano())
	return gopter.NewProperties(parameters)
}

var (
	genSpot   = gen.Float64Range(1, 1000)
	genStrike = gen.Float64Range(1, 1000)
	genYears  = gen.Float64Range(0.01, 5)
	genRate   = gen.Float64Range(-0.05, 0.2)
	genVol    = gen.Float64Range(0.01, 2)
)

// Property: call - put == S - K*e^(-rT) for every valid input.
func TestProperty_PutCallParity(t *testing.T) {
	properties := pricingProperties()

	properties.Property("put-call parity holds", prop.ForAll(
		func(S, K, T, r, sigma float64) bool {
			p, err := NewPricer(S, K, T, r, sigma)
			if err != nil {
				return false
			}
			call, put := p.Price()
			want := S - K*math.Exp(-r*T)
			scale := math.Max(S, K)
			return math.Abs((call-put)-want) <= 1e-9*scale
		},
		genSpot, genStrike, genYears, genRate, genVol,
	))

	properties.TestingRun(t)
}

// Property: call delta is in [0, 1], put delta in [-1, 0], and gamma and vega
// are never negative.
func TestProperty_GreekBounds(t *testing.T) {
	properties := pricingProperties()

	properties.Property("delta bounds and non-negative gamma and vega", prop.ForAll(
		func(S, K, T, r, sigma float64) bool {
			p, err := NewPricer(S, K, T, r, sigma)
			if err != nil {
				return false
			}
			g := NewGreeks(p)
			callDelta, _ := g.Delta(models.Call)
			putDelta, _ := g.Delta(models.Put)
			return callDelta >= 0 && callDelta <= 1 &&
				putDelta >= -1 && putDelta <= 0 &&
				g.Gamma() >= 0 && g.Vega() >= 0
		},
		genSpot, genStrike, genYears, genRate, genVol,
	))

	properties.TestingRun(t)
}
