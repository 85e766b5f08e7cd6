// Package domain provides defenitions of all entities.
package domain

import "errors"

// ErrCurrencyNotFound indicates that the currency is not found.
var ErrCurrencyNotFound = errors.New("currency not found")

// Currency describes one of the storefront currencies.
//
// IsInteger currencies have no fractional units: amounts in them are
// truncated toward zero to whole numbers wherever they are computed.
type Currency struct {
	ID           int32  `json:"id"`
	DisplayAsset string `json:"display_asset"`
	IsInteger    bool   `json:"is_integer"`
}
