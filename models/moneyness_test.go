package models

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardPrice(t *testing.T) {
	f, err := ForwardPrice(100, 0.03, 0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Exp(0.015), f, 1e-12)

	f, err = ForwardPrice(100, 0.03, 0.03, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 100, f, 1e-12)

	_, err = ForwardPrice(0, 0.03, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = ForwardPrice(100, 0.03, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMoneynessSign(t *testing.T) {
	below, err := Moneyness(90, 100)
	require.NoError(t, err)
	assert.Less(t, below, 0.0)

	above, err := Moneyness(110, 100)
	require.NoError(t, err)
	assert.Greater(t, above, 0.0)

	at, err := Moneyness(100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, at)

	_, err = Moneyness(0, 100)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Moneyness(100, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMoneynessArraySorted(t *testing.T) {
	xs, err := MoneynessArray([]float64{120, 80, 100, 95}, 100)
	require.NoError(t, err)
	require.Len(t, xs, 4)
	assert.True(t, sort.Float64sAreSorted(xs))
	assert.Equal(t, 0.0, xs[2])

	_, err = MoneynessArray([]float64{100, 0}, 100)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestUniqueSorted(t *testing.T) {
	in := []float64{3, 1, 2, 3, 1}
	assert.Equal(t, []float64{1, 2, 3}, UniqueSorted(in))
	assert.Equal(t, []float64{3, 1, 2, 3, 1}, in)
	assert.Empty(t, UniqueSorted(nil))
}
