package positions

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"go.uber.org/multierr"
)

// DefaultDTETargets are the 90, 180 and 270 day horizons used by (*Analysis).PickDTE.
var DefaultDTETargets = []int{90, 180, 270}

// ClosestStrikes keeps the records whose strike is among the n distinct
// chain strikes nearest spot, split into calls and puts sorted by strike then DTE.
func (a *Analysis) ClosestStrikes(records []GreekRecord, n int) (calls, puts []GreekRecord) {
	strikes := make([]float64, len(a.Contracts))
	for i, c := range a.Contracts {
		strikes[i] = c.Strike
	}
	closest := nearestStrikes(models.UniqueSorted(strikes), a.Snapshot.Spot, n)

	var kept []GreekRecord
	for _, r := range records {
		if closest[r.Strike] {
			kept = append(kept, r)
		}
	}
	calls, puts = splitByType(kept)
	sortByStrikeThenDTE(calls)
	sortByStrikeThenDTE(puts)
	return calls, puts
}

func nearestStrikes(strikes []float64, spot float64, n int) map[float64]bool {
	byDistance := append([]float64(nil), strikes...)
	sort.SliceStable(byDistance, func(i, j int) bool {
		return math.Abs(byDistance[i]-spot) < math.Abs(byDistance[j]-spot)
	})
	if n < len(byDistance) {
		byDistance = byDistance[:n]
	}
	set := make(map[float64]bool, len(byDistance))
	for _, k := range byDistance {
		set[k] = true
	}
	return set
}

// PickDTE finds, for each target horizon in days, the nearest DTE listed in
// the chain and returns the calls and puts at those DTEs sorted by DTE then
// strike. A target whose nearest DTE has no priced records yields nothing.
func (a *Analysis) PickDTE(records []GreekRecord, targetDays []int) (calls, puts []GreekRecord) {
	dtes := make([]float64, len(a.Contracts))
	for i, c := range a.Contracts {
		dtes[i] = c.YearsToExpiry
	}
	available := models.UniqueSorted(dtes)
	if len(available) == 0 {
		return nil, nil
	}

	picked := make(map[float64]bool, len(targetDays))
	for _, days := range targetDays {
		target := float64(days) / models.DaysPerYear
		best := available[0]
		for _, d := range available[1:] {
			if math.Abs(d-target) < math.Abs(best-target) {
				best = d
			}
		}
		picked[best] = true
	}

	var kept []GreekRecord
	for _, r := range records {
		if picked[r.DTE] {
			kept = append(kept, r)
		}
	}
	calls, puts = splitByType(kept)
	sortByDTEThenStrike(calls)
	sortByDTEThenStrike(puts)
	return calls, puts
}

// Expirations lists the distinct expiration dates of the chain, earliest first.
func Expirations(contracts []models.OptionContract) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, c := range contracts {
		if !seen[c.Expiration] {
			seen[c.Expiration] = true
			out = append(out, c.Expiration)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func FilterExpiration(contracts []models.OptionContract, expiration time.Time) []models.OptionContract {
	var out []models.OptionContract
	for _, c := range contracts {
		if c.Expiration.Equal(expiration) {
			out = append(out, c)
		}
	}
	return out
}

// SkewInputs selects the rows the skew curve is fitted on: every out of the
// money contract plus the contract whose strike is closest to the forward,
// without duplicates, ordered by strike.
func SkewInputs(contracts []models.OptionContract, forward float64) []models.OptionContract {
	if len(contracts) == 0 {
		return nil
	}

	atm := 0
	for i, c := range contracts {
		if math.Abs(c.Strike-forward) < math.Abs(contracts[atm].Strike-forward) {
			atm = i
		}
	}

	seen := make(map[string]bool)
	var out []models.OptionContract
	add := func(c models.OptionContract) {
		key := c.Symbol
		if key == "" {
			key = fmt.Sprintf("%v/%v/%v", c.Type, c.Strike, c.Expiration.Unix())
		}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}
	for _, c := range contracts {
		if !c.InTheMoney {
			add(c)
		}
	}
	add(contracts[atm])

	sort.SliceStable(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out
}

// SkewCurve evaluates the Orc Wing curve at the moneyness of each contract.
// A contract whose moneyness cannot be computed is left out, and a point that
// falls outside every region is NaN; both are reported in the returned error.
func SkewCurve(contracts []models.OptionContract, forward float64, params models.SkewParameters) ([]SkewPoint, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	order := make([]int, len(contracts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return contracts[order[i]].Strike < contracts[order[j]].Strike })

	var (
		kept []models.OptionContract
		xs   []float64
		errs error
	)
	for _, i := range order {
		c := contracts[i]
		x, err := models.Moneyness(c.Strike, forward)
		if err != nil {
			errs = multierr.Append(errs, &ItemError{Index: i, Symbol: c.Symbol, Err: err})
			continue
		}
		kept = append(kept, c)
		xs = append(xs, x)
	}

	vols, err := params.Evaluate(xs)
	errs = multierr.Append(errs, err)

	points := make([]SkewPoint, len(xs))
	for i, x := range xs {
		points[i] = SkewPoint{
			Strike:     kept[i].Strike,
			Moneyness:  x,
			Volatility: vols[i],
			MarketIV:   kept[i].ImpliedVol,
			Region:     params.Classify(x).String(),
		}
	}
	return points, errs
}

// SkewForExpiration builds the forward for one expiration from the snapshot
// and dividend yield q, selects the skew inputs and evaluates the curve.
func (a *Analysis) SkewForExpiration(expiration time.Time, params models.SkewParameters, q float64) ([]SkewPoint, error) {
	contracts := FilterExpiration(a.Contracts, expiration)
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: no contracts expire on %s", models.ErrDataUnavailable, expiration.Format("2006-01-02"))
	}

	forward, err := models.ForwardPrice(a.Snapshot.Spot, a.Snapshot.RiskFreeRate, q, contracts[0].YearsToExpiry)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Time("expiration", expiration).
		Float64("forward", forward).
		Int("contracts", len(contracts)).
		Msg("evaluating skew")

	return SkewCurve(SkewInputs(contracts, forward), forward, params)
}
