package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrItemNotFound indicates that the item is not found.
var ErrItemNotFound = errors.New("item not found")

// Item holds catalog item data.
//
// SpecialPrice, when set, fixes the item's displayed price and currency and
// bypasses randomized pricing entirely.
type Item struct {
	ID                int32            `json:"id"`
	Name              string           `json:"name"`
	Description       []string         `json:"description"`
	ImageAsset        string           `json:"image_asset"`
	SpecialPrice      *decimal.Decimal `json:"special_price,omitempty"`
	SpecialCurrencyID *int32           `json:"special_currency_id,omitempty"`
}

// PriceQuote is an ephemeral price computed for a single item view.
// It is never persisted.
type PriceQuote struct {
	Price           decimal.Decimal  `json:"price"`
	CurrencyID      int32            `json:"currency_id"`
	DiscountPercent *int32           `json:"discount_percent,omitempty"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
}
