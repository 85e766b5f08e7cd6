// Package bonusservice manages business logic layer of bonus grants.
package bonusservice

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
)

const maxRawBonus = 10_000 // grants per currency land in [0, 9999]

// AccountStore provides the serialized account access needed by the bonus
// service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package bonusservice
type AccountStore interface {
	WithAccount(ctx context.Context, username string, mutate func(*domain.AccountRecord) error) (domain.AccountRecord, error)
}

// CurrencyLister exposes the catalog currencies bonuses are granted in.
type CurrencyLister interface {
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Service facilitates bonus service layer logic.
type Service struct {
	store   AccountStore
	catalog CurrencyLister
}

// New returns bonus service struct to manage bonus bussines logic.
func New(as AccountStore, catalog CurrencyLister) *Service {
	return &Service{
		store:   as,
		catalog: catalog,
	}
}

// GrantBonus adds a random amount of every catalog currency to the user's
// balances. Integer currencies get a whole amount in [0, 9999]; other
// currencies rescale the draw by a random power of ten the same way pricing
// does. Repeated calls grant repeatedly; the record only remembers that at
// least one grant happened.
func (s *Service) GrantBonus(ctx context.Context, username string, rng randompkg.Intner) (domain.AccountRecord, error) {
	listed, err := s.catalog.ListCurrencies(ctx)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	// Stable draw order regardless of the catalog's ordering. The listed
	// slice may be shared with a cache, so sort a copy.
	currencies := make([]domain.Currency, len(listed))
	copy(currencies, listed)
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].ID < currencies[j].ID })

	return s.store.WithAccount(ctx, username, func(r *domain.AccountRecord) error {
		if r.Balances == nil {
			r.Balances = map[int32]decimal.Decimal{}
		}

		for _, currency := range currencies {
			raw := int64(rng.Intn(maxRawBonus))

			amount := decimal.NewFromInt(raw)
			if !currency.IsInteger {
				amount = pricing.ScaleByRandomExponent(raw, rng)
			}

			r.Balances[currency.ID] = r.Balances[currency.ID].Add(amount)
		}

		r.BonusGranted = true

		return nil
	})
}
