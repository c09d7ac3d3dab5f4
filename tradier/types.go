package tradier

import (
	"github.com/xhhuango/json"
)

type Quote struct {
	Symbol      string  `json:"symbol"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Last        float64 `json:"last"`
	Bid         float64 `json:"bid"`
	Ask         float64 `json:"ask"`
	Close       float64 `json:"close"`
	Prevclose   float64 `json:"prevclose"`
	TradeDate   int64   `json:"trade_date"`
}

// QuotesResponse holds either one quote object or an array of them; Tradier
// collapses single-element lists.
type QuotesResponse struct {
	Quotes struct {
		Quote json.RawMessage `json:"quote"`
	} `json:"quotes"`
}

func (r QuotesResponse) List() ([]Quote, error) {
	raw := r.Quotes.Quote
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var qs []Quote
		if err := json.Unmarshal(raw, &qs); err != nil {
			return nil, err
		}
		return qs, nil
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, err
	}
	return []Quote{q}, nil
}

type OptionExpirations struct {
	Expirations struct {
		Expiration []struct {
			Date           string `json:"date"`
			ContractSize   int    `json:"contract_size"`
			ExpirationType string `json:"expiration_type"`
			Strikes        struct {
				Strike []float64 `json:"strike"`
			} `json:"strikes"`
		} `json:"expiration"`
	} `json:"expirations"`
}

type Option struct {
	Symbol         string  `json:"symbol"`
	Description    string  `json:"description"`
	Exch           string  `json:"exch"`
	Type           string  `json:"type"`
	Volume         int     `json:"volume"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Underlying     string  `json:"underlying"`
	Strike         float64 `json:"strike"`
	OpenInterest   int     `json:"open_interest"`
	ContractSize   int     `json:"contract_size"`
	ExpirationDate string  `json:"expiration_date"`
	ExpirationType string  `json:"expiration_type"`
	OptionType     string  `json:"option_type"`
	RootSymbol     string  `json:"root_symbol"`
	Greeks         struct {
		Delta     float64 `json:"delta"`
		Gamma     float64 `json:"gamma"`
		Theta     float64 `json:"theta"`
		Vega      float64 `json:"vega"`
		Rho       float64 `json:"rho"`
		Phi       float64 `json:"phi"`
		BidIv     float64 `json:"bid_iv"`
		MidIv     float64 `json:"mid_iv"`
		AskIv     float64 `json:"ask_iv"`
		SmvVol    float64 `json:"smv_vol"`
		UpdatedAt string  `json:"updated_at"`
	} `json:"greeks"`
}

type OptionChain struct {
	Options        OptionList `json:"options"`
	ExpirationDate string     `json:"expiration_date"`
}

type OptionList struct {
	Option []Option `json:"option"`
}

// DividendsResponse is the fundamentals dividends payload, one entry per
// requested symbol.
type DividendsResponse []struct {
	Request string `json:"request"`
	Type    string `json:"type"`
	Results []struct {
		Type   string `json:"type"`
		ID     string `json:"id"`
		Tables struct {
			CashDividends []CashDividend `json:"cash_dividends"`
		} `json:"tables"`
	} `json:"results"`
}

type CashDividend struct {
	ShareClassID string  `json:"share_class_id"`
	DividendType string  `json:"dividend_type"`
	ExDate       string  `json:"ex_date"`
	CashAmount   float64 `json:"cash_amount"`
	Currency     string  `json:"currency_i_d"`
	Frequency    int     `json:"frequency"`
	PayDate      string  `json:"pay_date"`
}

func (r DividendsResponse) CashDividends() []CashDividend {
	var out []CashDividend
	for _, entry := range r {
		for _, res := range entry.Results {
			out = append(out, res.Tables.CashDividends...)
		}
	}
	return out
}
