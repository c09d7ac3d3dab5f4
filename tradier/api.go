package tradier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/rs/zerolog"
	"github.com/xhhuango/json"
)

const (
	DefaultBaseURL   = "https://api.tradier.com"
	DefaultRateProxy = "SHY"
	dateLayout       = "2006-01-02"
)

type Config struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	RateProxy string
	// RiskFreeRate, when set, is returned instead of the proxy yield.
	RiskFreeRate *float64
	// Expirations outside [MinDTE, MaxDTE] days are not fetched. Zero disables a bound.
	MinDTE int
	MaxDTE int
}

// Client is a Tradier market data provider.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RateProxy == "" {
		cfg.RateProxy = DefaultRateProxy
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	apiURL := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + query.Encode()

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.cfg.Token))
	r.Header.Add("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(r)
	if err != nil {
		c.logger.Debug().Err(err).Str("endpoint", path).Dur("duration", time.Since(start)).Msg("API call failed")
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug().Str("endpoint", path).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("API call completed")

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response data: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(responseData)))
	}

	if err := json.Unmarshal(responseData, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response data: %w", path, err)
	}
	return nil
}

func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	resp := &QuotesResponse{}
	if err := c.get(ctx, "/v1/markets/quotes", url.Values{"symbols": {symbol}}, resp); err != nil {
		return Quote{}, err
	}
	quotes, err := resp.List()
	if err != nil {
		return Quote{}, fmt.Errorf("decoding quotes for %s: %w", symbol, err)
	}
	for _, q := range quotes {
		if strings.EqualFold(q.Symbol, symbol) {
			return q, nil
		}
	}
	return Quote{}, fmt.Errorf("%w: no quote for %s", models.ErrDataUnavailable, symbol)
}

// Spot returns the last trade price, falling back to the previous close.
func (c *Client) Spot(ctx context.Context, symbol string) (float64, error) {
	q, err := c.Quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	price := q.Last
	if price <= 0 {
		price = q.Prevclose
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s has no usable price", models.ErrDataUnavailable, symbol)
	}
	return price, nil
}

// RiskFreeRate returns the configured rate or the trailing twelve month
// distribution yield of the proxy instrument.
func (c *Client) RiskFreeRate(ctx context.Context) (float64, error) {
	if c.cfg.RiskFreeRate != nil {
		return *c.cfg.RiskFreeRate, nil
	}

	proxy := c.cfg.RateProxy
	price, err := c.Spot(ctx, proxy)
	if err != nil {
		return 0, err
	}

	resp := DividendsResponse{}
	if err := c.get(ctx, "/beta/markets/fundamentals/dividends", url.Values{"symbols": {proxy}}, &resp); err != nil {
		return 0, err
	}
	return TrailingYield(resp.CashDividends(), price, c.now())
}

// TrailingYield sums the cash distributions with an ex-date in the year
// before now and divides by price.
func TrailingYield(dividends []CashDividend, price float64, now time.Time) (float64, error) {
	cutoff := now.AddDate(-1, 0, 0)
	total := 0.0
	n := 0
	for _, d := range dividends {
		ex, err := time.Parse(dateLayout, d.ExDate)
		if err != nil || ex.Before(cutoff) || ex.After(now) {
			continue
		}
		total += d.CashAmount
		n++
	}
	if n == 0 || total <= 0 || price <= 0 {
		return 0, fmt.Errorf("%w: rate proxy has no yield", models.ErrDataUnavailable)
	}
	return total / price, nil
}

// Expirations lists the available expiration dates inside the DTE window.
func (c *Client) Expirations(ctx context.Context, symbol string) ([]string, error) {
	resp := &OptionExpirations{}
	query := url.Values{
		"symbol":          {symbol},
		"includeAllRoots": {"true"},
		"strikes":         {"true"},
		"contractSize":    {"true"},
		"expirationType":  {"true"},
	}
	if err := c.get(ctx, "/v1/markets/options/expirations", query, resp); err != nil {
		return nil, err
	}

	today := c.now()
	var dates []string
	for _, expiration := range resp.Expirations.Expiration {
		expirationTime, err := time.ParseInLocation(dateLayout, expiration.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expiration date: %w", err)
		}
		dte := int(expirationTime.Sub(today).Hours() / 24)
		if (c.cfg.MinDTE > 0 && dte < c.cfg.MinDTE) || (c.cfg.MaxDTE > 0 && dte > c.cfg.MaxDTE) {
			continue
		}
		dates = append(dates, expiration.Date)
	}
	return dates, nil
}

func (c *Client) Chain(ctx context.Context, symbol, expiration string) (*OptionChain, error) {
	chain := &OptionChain{}
	query := url.Values{"symbol": {symbol}, "expiration": {expiration}, "greeks": {"true"}}
	if err := c.get(ctx, "/v1/markets/options/chains", query, chain); err != nil {
		return nil, err
	}
	chain.ExpirationDate = expiration
	return chain, nil
}

// OptionChain fetches every expiration in the window and converts the rows.
// Rows whose symbol carries no option type code are logged and dropped.
func (c *Client) OptionChain(ctx context.Context, symbol string) ([]models.OptionContract, error) {
	spot, err := c.Spot(ctx, symbol)
	if err != nil {
		return nil, err
	}
	dates, err := c.Expirations(ctx, symbol)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var contracts []models.OptionContract
	for _, date := range dates {
		chain, err := c.Chain(ctx, symbol, date)
		if err != nil {
			return nil, err
		}
		for _, opt := range chain.Options.Option {
			contract, err := ToContract(opt, spot, now)
			if err != nil {
				c.logger.Warn().Err(err).Str("contract", opt.Symbol).Msg("dropping option row")
				continue
			}
			contracts = append(contracts, contract)
		}
	}
	c.logger.Info().Str("symbol", symbol).Int("expirations", len(dates)).Int("contracts", len(contracts)).Msg("option chain loaded")
	return contracts, nil
}
