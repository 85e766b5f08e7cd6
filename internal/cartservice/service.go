// Package cartservice manages business logic layer of shopping carts.
package cartservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
)

// AccountStore provides the serialized account access needed by the cart
// service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cartservice
type AccountStore interface {
	Load(ctx context.Context, username string) (domain.AccountRecord, error)
	WithAccount(ctx context.Context, username string, mutate func(*domain.AccountRecord) error) (domain.AccountRecord, error)
}

// Service facilitates cart service layer logic.
type Service struct {
	store AccountStore
}

// New returns cart service struct to manage cart bussines logic.
func New(as AccountStore) *Service {
	return &Service{store: as}
}

// Get returns the user's current cart.
func (s *Service) Get(ctx context.Context, username string) (domain.Cart, error) {
	record, err := s.store.Load(ctx, username)
	if err != nil {
		return domain.Cart{}, err
	}

	return record.Cart, nil
}

// AddLine appends the line to the user's cart and adds its effective price
// to the running summary for the line's currency.
func (s *Service) AddLine(ctx context.Context, username string, line domain.CartLine) (domain.Cart, error) {
	record, err := s.store.WithAccount(ctx, username, func(r *domain.AccountRecord) error {
		r.Cart.Lines = append(r.Cart.Lines, line)

		if r.Cart.Summary == nil {
			r.Cart.Summary = map[int32]decimal.Decimal{}
		}

		r.Cart.Summary[line.CurrencyID] = r.Cart.Summary[line.CurrencyID].Add(line.EffectivePrice())

		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return record.Cart, nil
}

// RemoveLine removes the first cart line for the item and subtracts its
// effective price from the summary. A summary entry that drops to zero or
// below is kept as is, not pruned. Fails with domain.ErrCartLineNotFound if
// the cart holds no line for the item.
func (s *Service) RemoveLine(ctx context.Context, username string, itemID int32) (domain.Cart, error) {
	record, err := s.store.WithAccount(ctx, username, func(r *domain.AccountRecord) error {
		for i, line := range r.Cart.Lines {
			if line.ItemID != itemID {
				continue
			}

			r.Cart.Lines = append(r.Cart.Lines[:i], r.Cart.Lines[i+1:]...)
			r.Cart.Summary[line.CurrencyID] = r.Cart.Summary[line.CurrencyID].Sub(line.EffectivePrice())

			return nil
		}

		return domain.ErrCartLineNotFound
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return record.Cart, nil
}
