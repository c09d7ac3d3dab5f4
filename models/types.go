package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const DaysPerYear = 365.0

type OptionType uint8

const (
	Call OptionType = iota + 1
	Put
)

func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", uint8(t))
	}
}

// ParseOptionType accepts "call", "put", "c" or "p" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

// OptionTypeFromSymbol reads the type code of an OCC contract symbol such as
// SPY240119C00450000: root, YYMMDD, C or P, then an 8 digit strike.
func OptionTypeFromSymbol(symbol string) (OptionType, error) {
	s := strings.TrimSpace(symbol)
	if len(s) < 16 {
		return 0, fmt.Errorf("%w: symbol %q is too short", ErrInvalidOptionType, symbol)
	}
	code := s[len(s)-9]
	for _, c := range s[len(s)-15 : len(s)-9] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: symbol %q has no expiration date", ErrInvalidOptionType, symbol)
		}
	}
	switch code {
	case 'C':
		return Call, nil
	case 'P':
		return Put, nil
	}
	return 0, fmt.Errorf("%w: symbol %q has type code %q", ErrInvalidOptionType, symbol, code)
}

type MoneynessFlag uint8

const (
	OTM MoneynessFlag = iota
	ATM
	ITM
)

func (m MoneynessFlag) String() string {
	switch m {
	case ITM:
		return "ITM"
	case ATM:
		return "ATM"
	default:
		return "OTM"
	}
}

// ClassifyMoneyness compares strike to spot for the given option type.
func ClassifyMoneyness(t OptionType, strike, spot float64) MoneynessFlag {
	switch {
	case strike == spot:
		return ATM
	case t == Call && strike < spot, t == Put && strike > spot:
		return ITM
	default:
		return OTM
	}
}

// MarketSnapshot is the underlying's state observed once per analysis run.
type MarketSnapshot struct {
	Symbol       string
	Spot         float64
	RiskFreeRate float64
	AsOf         time.Time
}

func NewMarketSnapshot(symbol string, spot, riskFreeRate float64, asOf time.Time) (MarketSnapshot, error) {
	if err := RequirePositive(NamedValue{"spot", spot}); err != nil {
		return MarketSnapshot{}, err
	}
	if math.IsNaN(riskFreeRate) || math.IsInf(riskFreeRate, 0) {
		return MarketSnapshot{}, &ParameterError{Name: "risk-free rate", Value: riskFreeRate}
	}
	return MarketSnapshot{Symbol: symbol, Spot: spot, RiskFreeRate: riskFreeRate, AsOf: asOf}, nil
}

// OptionContract is one row of an option chain. ImpliedVol is zero when the
// provider did not report one; the pipeline filters such rows.
type OptionContract struct {
	Symbol        string
	Underlying    string
	Type          OptionType
	Strike        float64
	Expiration    time.Time
	YearsToExpiry float64
	ImpliedVol    float64
	Bid           float64
	Ask           float64
	Mid           float64
	InTheMoney    bool
	Moneyness     MoneynessFlag
}

// NewOptionContract derives mid, time to expiry and moneyness from the raw row.
func NewOptionContract(symbol, underlying string, typ OptionType, strike float64, expiration time.Time, iv, bid, ask, spot float64, now time.Time) OptionContract {
	flag := ClassifyMoneyness(typ, strike, spot)
	return OptionContract{
		Symbol:        symbol,
		Underlying:    underlying,
		Type:          typ,
		Strike:        strike,
		Expiration:    expiration,
		YearsToExpiry: YearsToExpiry(expiration, now),
		ImpliedVol:    iv,
		Bid:           bid,
		Ask:           ask,
		Mid:           (bid + ask) / 2,
		InTheMoney:    flag == ITM,
		Moneyness:     flag,
	}
}

func (c OptionContract) IsCall() bool {
	return c.Type == Call
}

// DTE is the contract's time to expiry in whole calendar days.
func (c OptionContract) DTE() int {
	return int(math.Round(c.YearsToExpiry * DaysPerYear))
}

// YearsToExpiry counts whole days between now and expiration, floored, over 365.
func YearsToExpiry(expiration, now time.Time) float64 {
	days := math.Floor(expiration.Sub(now).Hours() / 24)
	return days / DaysPerYear
}
