// Package pricing computes the displayed price, currency, and discount for
// an item view.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
)

const (
	maxRawPrice         = 100_000_000 // raw draws land in [0, 99_999_999]
	discountTriggerOdds = 10
	maxDiscountPercent  = 400
)

// Engine computes price quotes. It holds no state; the random source is
// injected per call so quotes are reproducible under test.
type Engine struct{}

// New returns a pricing engine.
func New() *Engine {
	return &Engine{}
}

// ComputeQuote returns a quote for the item.
//
// Special-priced items short-circuit to their fixed price and currency with
// no randomization. Otherwise the draws happen in a fixed order: raw value,
// scaling exponent, currency, discount trigger, then discount percent when
// the trigger fires. The discount percent range reaches 400, so the discount
// price can be negative; that is kept as computed.
func (e *Engine) ComputeQuote(item domain.Item, currencies []domain.Currency, rng randompkg.Intner) (domain.PriceQuote, error) {
	if item.SpecialPrice != nil && item.SpecialCurrencyID != nil {
		return domain.PriceQuote{
			Price:      *item.SpecialPrice,
			CurrencyID: *item.SpecialCurrencyID,
		}, nil
	}

	if len(currencies) == 0 {
		return domain.PriceQuote{}, domain.ErrCurrencyNotFound
	}

	raw := int64(rng.Intn(maxRawPrice))
	price := ScaleByRandomExponent(raw, rng)

	currency := currencies[rng.Intn(len(currencies))]

	quote := domain.PriceQuote{CurrencyID: currency.ID}

	if rng.Intn(discountTriggerOdds)+1 == discountTriggerOdds {
		percent := int32(rng.Intn(maxDiscountPercent) + 1)

		// price - price*percent/100, exact in decimal.
		discount := price.Sub(price.Mul(decimal.NewFromInt32(percent)).Shift(-2))

		if currency.IsInteger {
			discount = discount.Truncate(0)
		}

		quote.DiscountPercent = &percent
		quote.DiscountPrice = &discount
	}

	if currency.IsInteger {
		price = price.Truncate(0)
	}

	quote.Price = price

	return quote, nil
}

// ScaleByRandomExponent divides raw by a power of ten drawn uniformly from
// [0, digits(raw)]. Larger exponents are equally likely regardless of raw's
// magnitude, which skews results toward smaller amounts. The bonus service
// applies the same scaling to non-integer currency grants.
func ScaleByRandomExponent(raw int64, rng randompkg.Intner) decimal.Decimal {
	exponent := rng.Intn(decimalDigitCount(raw) + 1)
	return decimal.New(raw, -int32(exponent))
}

func decimalDigitCount(n int64) int {
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}

	return digits
}
