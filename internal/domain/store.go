package domain

import "errors"

// ErrStoreNotFound indicates that no storefront is configured.
var ErrStoreNotFound = errors.New("store not found")

// Store describes one of the storefronts an item can be browsed in.
type Store struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	ImageAsset string `json:"image_asset"`
}
