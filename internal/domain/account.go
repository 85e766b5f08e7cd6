package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that no account record exists for the user.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountCorrupt indicates that the persisted account record cannot be
	// parsed. Terminal for the request; the record is never silently reset.
	ErrAccountCorrupt = errors.New("account record corrupt")
	// ErrAccountExists indicates that the account record already exists.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountBusy indicates that the per-user lock could not be acquired
	// within the configured bound. Retryable.
	ErrAccountBusy = errors.New("account busy")
	// ErrCartLineNotFound indicates that the cart holds no line for the item.
	ErrCartLineNotFound = errors.New("cart line not found")
)

// CartLine holds the priced snapshot of one item added to the cart.
type CartLine struct {
	ItemID          int32            `json:"item_id"`
	CurrencyID      int32            `json:"currency_id"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *int32           `json:"discount_percent,omitempty"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
}

// EffectivePrice returns the discount price if present, else the base price.
func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.DiscountPrice != nil {
		return *l.DiscountPrice
	}

	return l.Price
}

// Cart holds the user's cart lines and a running per-currency summary.
//
// Summary[c] equals the sum of effective prices of lines with CurrencyID c.
// Entries that drop to zero or below on removal are kept, not pruned.
type Cart struct {
	Lines   []CartLine                `json:"lines"`
	Summary map[int32]decimal.Decimal `json:"summary"`
}

// Order is reserved for order history; nothing writes it yet.
type Order struct {
	ID int64 `json:"id"`
}

// AccountRecord is the durable per-user document. It is created empty at
// registration, mutated in place by the cart and bonus services, and
// persisted in full on every mutation.
type AccountRecord struct {
	Cart         Cart                      `json:"cart"`
	Orders       map[int64]Order           `json:"orders"`
	Balances     map[int32]decimal.Decimal `json:"balances"`
	BonusGranted bool                      `json:"bonus_granted"`
}

// NewAccountRecord returns an empty record with a zero balance for every
// given currency.
func NewAccountRecord(currencies []Currency) AccountRecord {
	balances := make(map[int32]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		balances[c.ID] = decimal.Zero
	}

	return AccountRecord{
		Cart: Cart{
			Lines:   []CartLine{},
			Summary: map[int32]decimal.Decimal{},
		},
		Orders:   map[int64]Order{},
		Balances: balances,
	}
}
