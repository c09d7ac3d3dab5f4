package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSkew(t *testing.T) SkewParameters {
	t.Helper()
	p, err := NewSkewParameters(0.2, -0.1, 0.05, 0.03, -0.2, 0.2, 0.5, 0.5)
	require.NoError(t, err)
	return p
}

func TestEvaluateReferenceCurve(t *testing.T) {
	p := defaultSkew(t)
	xs := []float64{-0.5, -0.2, 0, 0.1, 0.2, 0.5}

	vols, err := p.Evaluate(xs)
	require.NoError(t, err)
	require.Len(t, vols, len(xs))

	want := []float64{0.228, 0.222, 0.2, 0.1903, 0.1812, 0.1768}
	for i := range xs {
		assert.False(t, math.IsNaN(vols[i]) || math.IsInf(vols[i], 0), "x=%v", xs[i])
		assert.InDelta(t, want[i], vols[i], 1e-12, "x=%v", xs[i])
	}

	regions := []Region{DownFlat, DownSmoothing, PutWing, CallWing, CallWing, UpFlat}
	for i, x := range xs {
		assert.Equal(t, regions[i], p.Classify(x), "x=%v", x)
	}
}

func TestBreakpointOwnership(t *testing.T) {
	p := defaultSkew(t)

	assert.Equal(t, PutWing, p.Classify(0))
	assert.Equal(t, CallWing, p.Classify(p.Uc))
	assert.Equal(t, DownSmoothing, p.Classify(p.Dc))
	assert.Equal(t, UpSmoothing, p.Classify(p.Uc*(1+p.Usm)))
	assert.Equal(t, NoRegion, p.Classify(p.Dc*(1+p.Dsm)))
}

func TestVolatilityOutOfDomain(t *testing.T) {
	p := defaultSkew(t)
	edge := p.Dc * (1 + p.Dsm)

	v, err := p.Volatility(edge)
	require.Error(t, err)
	assert.True(t, math.IsNaN(v))
	assert.ErrorIs(t, err, ErrOutOfDomain)

	var ood *OutOfDomainError
	require.True(t, errors.As(err, &ood))
	assert.Equal(t, edge, ood.X)

	_, err = p.Volatility(math.NaN())
	assert.ErrorIs(t, err, ErrOutOfDomain)
}

func TestEvaluateIsolatesFailingPoints(t *testing.T) {
	p := defaultSkew(t)
	xs := []float64{-0.1, p.Dc * (1 + p.Dsm), 0.1}

	vols, err := p.Evaluate(xs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfDomain)
	require.Len(t, vols, 3)
	assert.False(t, math.IsNaN(vols[0]))
	assert.True(t, math.IsNaN(vols[1]))
	assert.False(t, math.IsNaN(vols[2]))
}

func TestEvaluateIdempotent(t *testing.T) {
	p := defaultSkew(t)
	xs := []float64{-0.9, -0.25, -0.05, 0, 0.05, 0.25, 0.9}

	a, err := p.Evaluate(xs)
	require.NoError(t, err)
	b, err := EvaluateCurve(xs, p)
	require.NoError(t, err)
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]))
	}
}

func TestEvaluateEmpty(t *testing.T) {
	vols, err := defaultSkew(t).Evaluate(nil)
	require.NoError(t, err)
	assert.Empty(t, vols)
}

func TestSkewParametersDomain(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SkewParameters)
	}{
		{"uc at one", func(p *SkewParameters) { p.Uc = 1 }},
		{"uc above one", func(p *SkewParameters) { p.Uc = 1.5 }},
		{"uc zero", func(p *SkewParameters) { p.Uc = 0 }},
		{"dc at minus one", func(p *SkewParameters) { p.Dc = -1 }},
		{"dc below minus one", func(p *SkewParameters) { p.Dc = -2 }},
		{"dc zero", func(p *SkewParameters) { p.Dc = 0 }},
		{"dsm zero", func(p *SkewParameters) { p.Dsm = 0 }},
		{"dsm negative", func(p *SkewParameters) { p.Dsm = -0.5 }},
		{"usm zero", func(p *SkewParameters) { p.Usm = 0 }},
		{"vc too small", func(p *SkewParameters) { p.Vc = 0 }},
		{"vc too large", func(p *SkewParameters) { p.Vc = 4 }},
		{"sc too large", func(p *SkewParameters) { p.Sc = 1e7 }},
		{"pc nan", func(p *SkewParameters) { p.Pc = math.NaN() }},
		{"cc inf", func(p *SkewParameters) { p.Cc = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultSkew(t)
			tt.mutate(&p)

			_, err := NewSkewParameters(p.Vc, p.Sc, p.Pc, p.Cc, p.Dc, p.Uc, p.Dsm, p.Usm)
			assert.ErrorIs(t, err, ErrInvalidSkewParameters)

			vols, err := p.Evaluate([]float64{0})
			assert.ErrorIs(t, err, ErrInvalidSkewParameters)
			assert.Nil(t, vols)
		})
	}
}

func TestBreakpoints(t *testing.T) {
	p := defaultSkew(t)
	bp := p.Breakpoints()
	require.Len(t, bp, 5)
	assert.InDelta(t, -0.3, bp[0], 1e-15)
	assert.Equal(t, -0.2, bp[1])
	assert.Equal(t, 0.0, bp[2])
	assert.Equal(t, 0.2, bp[3])
	assert.InDelta(t, 0.3, bp[4], 1e-15)
	for i := 1; i < len(bp); i++ {
		assert.Less(t, bp[i-1], bp[i])
	}
}

func TestRegionString(t *testing.T) {
	assert.Equal(t, "put wing", PutWing.String())
	assert.Equal(t, "up flat", UpFlat.String())
	assert.Equal(t, "none", NoRegion.String())
}
