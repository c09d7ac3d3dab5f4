package positions

import (
	"math"
	"testing"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryGreeksReferenceValues(t *testing.T) {
	g := NewGreeks(referencePricer(t))

	primary, err := g.PrimaryGreeks(models.Call)
	require.NoError(t, err)
	assert.InDelta(t, 0.4332, primary.Delta, 1e-4)
	assert.InDelta(t, 0.0278, primary.Gamma, 1e-4)
	assert.InDelta(t, 27.8131, primary.Vega, 1e-4)
	assert.Less(t, primary.Theta, 0.0)
	assert.InDelta(t, -0.018457, primary.Theta, 1e-6)
	assert.Greater(t, primary.Rho, 0.0)
	assert.InDelta(t, 19.5711, primary.Rho, 1e-4)

	put, err := g.PrimaryGreeks(models.Put)
	require.NoError(t, err)
	assert.InDelta(t, primary.Delta-1, put.Delta, 1e-15)
	assert.Equal(t, primary.Gamma, put.Gamma)
	assert.Equal(t, primary.Vega, put.Vega)
	assert.Less(t, put.Rho, 0.0)
}

func TestThetaCallPutDifference(t *testing.T) {
	p := referencePricer(t)
	g := NewGreeks(p)

	call, err := g.Theta(models.Call)
	require.NoError(t, err)
	put, err := g.Theta(models.Put)
	require.NoError(t, err)

	// Φ(d2) + Φ(-d2) = 1, so the two differ by the daily carry on the strike
	want := -p.R * p.K * math.Exp(-p.R*p.T) / models.DaysPerYear
	assert.InDelta(t, want, call-put, 1e-12)
}

func TestSecondaryGreeks(t *testing.T) {
	p := referencePricer(t)
	g := NewGreeks(p)
	s := g.SecondaryGreeks()

	vega := g.Vega()
	assert.InDelta(t, vega*p.D1*p.D2/p.Sigma, s.Vomma, 1e-12)
	assert.InDelta(t, -vega*p.D2/(p.Sigma*p.S), s.Vanna, 1e-12)

	pdf := math.Exp(-p.D1*p.D1/2) / math.Sqrt(2*math.Pi)
	wantCharm := -pdf / (2 * math.Sqrt(p.T)) * ((2*p.R)/p.Sigma - p.D2*p.Sigma)
	assert.InDelta(t, wantCharm, s.Charm, 1e-12)
}

func TestGreeksInvalidType(t *testing.T) {
	g := NewGreeks(referencePricer(t))
	bad := models.OptionType(3)

	_, err := g.Delta(bad)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)
	_, err = g.Theta(bad)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)
	_, err = g.Rho(bad)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)
	_, err = g.PrimaryGreeks(bad)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)

	set, err := g.All(bad)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)
	assert.Equal(t, GreekSet{}, set)
}

func TestGreekSetMap(t *testing.T) {
	set, err := NewGreeks(referencePricer(t)).All(models.Call)
	require.NoError(t, err)

	m := set.Map()
	require.Len(t, m, len(GreekNames))
	for _, name := range GreekNames {
		_, ok := m[name]
		assert.True(t, ok, name)
	}
	assert.Equal(t, set.Delta, m["delta"])
	assert.Equal(t, set.Charm, m["charm"])
}
