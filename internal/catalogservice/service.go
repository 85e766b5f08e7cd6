// Package catalogservice manages business logic layer of the read-only catalog.
//
// Catalog data never changes during a user session, so item and currency
// reads are cached in-process.
package catalogservice

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
)

// Repo provides data access layer interface needed by catalog service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package catalogservice
type Repo interface {
	GetItem(ctx context.Context, id int32) (domain.Item, error)
	GetCurrency(ctx context.Context, id int32) (domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
}

// Service facilitates catalog service layer logic.
type Service struct {
	repo Repo

	items      *lru.Cache[int32, domain.Item]
	currencies *lru.Cache[int32, domain.Currency]

	mu             sync.Mutex
	currencyList   []domain.Currency
	currencyListOK bool
}

// New returns catalog service struct to manage catalog reads.
func New(cr Repo, itemCacheSize int) (*Service, error) {
	items, err := lru.New[int32, domain.Item](itemCacheSize)
	if err != nil {
		return nil, err
	}

	currencies, err := lru.New[int32, domain.Currency](itemCacheSize)
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:       cr,
		items:      items,
		currencies: currencies,
	}, nil
}

// GetItem returns the item with the given id.
func (s *Service) GetItem(ctx context.Context, id int32) (domain.Item, error) {
	if item, ok := s.items.Get(id); ok {
		return item, nil
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return item, err
	}

	s.items.Add(id, item)

	return item, nil
}

// GetCurrency returns the currency with the given id.
func (s *Service) GetCurrency(ctx context.Context, id int32) (domain.Currency, error) {
	if currency, ok := s.currencies.Get(id); ok {
		return currency, nil
	}

	currency, err := s.repo.GetCurrency(ctx, id)
	if err != nil {
		return currency, err
	}

	s.currencies.Add(id, currency)

	return currency, nil
}

// ListCurrencies returns every catalog currency, ordered by id.
func (s *Service) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currencyListOK {
		return s.currencyList, nil
	}

	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	s.currencyList = currencies
	s.currencyListOK = true

	return currencies, nil
}

// ListStores returns every configured storefront.
func (s *Service) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.repo.ListStores(ctx)
}

// ChooseStore picks the storefront to present. It replaces the historical
// process-wide mutable current store: callers draw once and pass the value
// down explicitly.
func ChooseStore(stores []domain.Store, rng randompkg.Intner) (domain.Store, error) {
	if len(stores) == 0 {
		return domain.Store{}, domain.ErrStoreNotFound
	}

	return stores[rng.Intn(len(stores))], nil
}
