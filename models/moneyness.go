package models

import (
	"math"
	"sort"
)

// ForwardPrice returns S*e^((r-q)T). Pass q=0 when no dividend yield applies.
func ForwardPrice(spot, r, q, T float64) (float64, error) {
	if err := RequirePositive(NamedValue{"spot", spot}, NamedValue{"time to expiry", T}); err != nil {
		return 0, err
	}
	return spot * math.Exp((r-q)*T), nil
}

// Moneyness is the log-moneyness ln(K/F): negative on the put side of the
// forward, positive on the call side.
func Moneyness(strike, forward float64) (float64, error) {
	if err := RequirePositive(NamedValue{"strike", strike}, NamedValue{"forward", forward}); err != nil {
		return 0, err
	}
	return math.Log(strike / forward), nil
}

// MoneynessArray converts strikes against one forward and sorts the result
// ascending. Duplicate strikes must be removed by the caller.
func MoneynessArray(strikes []float64, forward float64) ([]float64, error) {
	xs := make([]float64, len(strikes))
	for i, k := range strikes {
		x, err := Moneyness(k, forward)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	sort.Float64s(xs)
	return xs, nil
}

func removeDuplicates(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	result := []float64{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}

// UniqueSorted returns the distinct values of vs in ascending order.
func UniqueSorted(vs []float64) []float64 {
	out := append([]float64(nil), vs...)
	sort.Float64s(out)
	return removeDuplicates(out)
}
