package tradier

import (
	"fmt"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
)

// ToContract converts a chain row. The option type comes from the OCC code in
// the symbol; implied volatility is the mid IV, or the SMV surface vol when
// the mid IV is missing.
func ToContract(opt Option, spot float64, now time.Time) (models.OptionContract, error) {
	typ, err := models.OptionTypeFromSymbol(opt.Symbol)
	if err != nil {
		return models.OptionContract{}, err
	}
	expiration, err := time.ParseInLocation(dateLayout, opt.ExpirationDate, time.Local)
	if err != nil {
		return models.OptionContract{}, fmt.Errorf("parsing expiration of %s: %w", opt.Symbol, err)
	}

	iv := opt.Greeks.MidIv
	if iv <= 0 {
		iv = opt.Greeks.SmvVol
	}

	underlying := opt.Underlying
	if underlying == "" {
		underlying = opt.RootSymbol
	}
	return models.NewOptionContract(opt.Symbol, underlying, typ, opt.Strike, expiration, iv, opt.Bid, opt.Ask, spot, now), nil
}
