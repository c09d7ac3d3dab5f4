// Package report renders Greek tables and skew curves as text or JSON.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/bcdannyboy/orcgreeks/positions"
	"github.com/shopspring/decimal"
	"github.com/xhhuango/json"
)

const places = 6

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// round fixes a value to a decimal with the given places. NaN and infinities
// have no decimal form and are returned as nil.
func round(v float64, places int32) *decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	d := decimal.NewFromFloat(v).Round(places)
	return &d
}

func text(d *decimal.Decimal) string {
	if d == nil {
		return "NaN"
	}
	return d.StringFixed(places)
}

type greekRow struct {
	Symbol     string                      `json:"symbol"`
	Type       string                      `json:"type"`
	Strike     *decimal.Decimal            `json:"strike"`
	Expiration string                      `json:"expiration"`
	DTE        *decimal.Decimal            `json:"dte"`
	IV         *decimal.Decimal            `json:"iv"`
	Price      *decimal.Decimal            `json:"price"`
	Greeks     map[string]*decimal.Decimal `json:"greeks"`
}

func toGreekRow(r positions.GreekRecord) greekRow {
	greeks := make(map[string]*decimal.Decimal, len(positions.GreekNames))
	for name, v := range r.Greeks.Map() {
		greeks[name] = round(v, places)
	}
	return greekRow{
		Symbol:     r.Symbol,
		Type:       r.Type.String(),
		Strike:     round(r.Strike, 2),
		Expiration: r.Expiration.Format("2006-01-02"),
		DTE:        round(r.DTE, places),
		IV:         round(r.IV, places),
		Price:      round(r.Price, 4),
		Greeks:     greeks,
	}
}

// WriteGreeksJSON writes the records as an indented JSON array.
func WriteGreeksJSON(w io.Writer, records []positions.GreekRecord) error {
	rows := make([]greekRow, len(records))
	for i, r := range records {
		rows[i] = toGreekRow(r)
	}
	return writeJSON(w, rows)
}

// WriteGreeksTable writes one aligned row per record.
func WriteGreeksTable(w io.Writer, records []positions.GreekRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"symbol", "type", "strike", "expiry", "iv", "price"}, positions.GreekNames...)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, r := range records {
		row := toGreekRow(r)
		cols := []string{row.Symbol, row.Type, text(row.Strike), row.Expiration, text(row.IV), text(row.Price)}
		for _, name := range positions.GreekNames {
			cols = append(cols, text(row.Greeks[name]))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")
	}
	return tw.Flush()
}

type skewRow struct {
	Strike     *decimal.Decimal `json:"strike"`
	Moneyness  *decimal.Decimal `json:"moneyness"`
	Volatility *decimal.Decimal `json:"volatility"`
	MarketIV   *decimal.Decimal `json:"market_iv"`
	Region     string           `json:"region"`
}

func toSkewRow(p positions.SkewPoint) skewRow {
	return skewRow{
		Strike:     round(p.Strike, 2),
		Moneyness:  round(p.Moneyness, places),
		Volatility: round(p.Volatility, places),
		MarketIV:   round(p.MarketIV, places),
		Region:     p.Region,
	}
}

func WriteSkewJSON(w io.Writer, points []positions.SkewPoint) error {
	rows := make([]skewRow, len(points))
	for i, p := range points {
		rows[i] = toSkewRow(p)
	}
	return writeJSON(w, rows)
}

func WriteSkewTable(w io.Writer, points []positions.SkewPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strike\tmoneyness\tvolatility\tmarket iv\tregion\t")
	for _, p := range points {
		row := toSkewRow(p)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", text(row.Strike), text(row.Moneyness), text(row.Volatility), text(row.MarketIV), row.Region)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
