package positions

import (
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
)

type PrimaryGreeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

type SecondaryGreeks struct {
	Vomma float64 `json:"vomma"`
	Vanna float64 `json:"vanna"`
	Charm float64 `json:"charm"`
}

type GreekSet struct {
	PrimaryGreeks
	SecondaryGreeks
}

// GreekNames lists the Greeks in report order.
var GreekNames = []string{"delta", "gamma", "vega", "theta", "rho", "vomma", "vanna", "charm"}

func (g GreekSet) Map() map[string]float64 {
	return map[string]float64{
		"delta": g.Delta,
		"gamma": g.Gamma,
		"vega":  g.Vega,
		"theta": g.Theta,
		"rho":   g.Rho,
		"vomma": g.Vomma,
		"vanna": g.Vanna,
		"charm": g.Charm,
	}
}

// GreekRecord is one contract's row in a Greeks table.
type GreekRecord struct {
	Symbol     string            `json:"symbol"`
	Type       models.OptionType `json:"-"`
	Call       bool              `json:"call"`
	Strike     float64           `json:"strike"`
	Expiration time.Time         `json:"expiration"`
	DTE        float64           `json:"dte"` // years
	IV         float64           `json:"iv"`
	Price      float64           `json:"price"`
	Greeks     GreekSet          `json:"greeks"`
}

// DTEDays converts the record's DTE back to calendar days.
func (r GreekRecord) DTEDays() int {
	return int(r.DTE*models.DaysPerYear + 0.5)
}

// SkewPoint pairs a moneyness coordinate with its curve volatility.
type SkewPoint struct {
	Strike     float64 `json:"strike"`
	Moneyness  float64 `json:"moneyness"`
	Volatility float64 `json:"volatility"`
	MarketIV   float64 `json:"market_iv"`
	Region     string  `json:"region"`
}

// ItemError ties a batch failure to the contract that caused it.
type ItemError struct {
	Index  int
	Symbol string
	Err    error
}

func (e *ItemError) Error() string {
	return "contract " + e.Symbol + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
