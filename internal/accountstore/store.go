// Package accountstore owns access to per-user account records.
//
// All mutations go through WithAccount, which serializes concurrent
// load-mutate-save cycles for the same user. Requests for distinct users do
// not contend.
package accountstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-shopfront/shopfront/internal/domain"
)

// Repo provides data access layer interface needed by the account store.
//
//go:generate mockgen -source store.go -destination store_mock.go -package accountstore
type Repo interface {
	Create(ctx context.Context, username string, record domain.AccountRecord) error
	Get(ctx context.Context, username string) (domain.AccountRecord, error)
	Set(ctx context.Context, username string, record domain.AccountRecord) error
}

// CurrencyLister exposes the catalog currencies known at account creation.
type CurrencyLister interface {
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Store facilitates account record access with per-user serialization.
type Store struct {
	repo        Repo
	catalog     CurrencyLister
	lockTimeout time.Duration

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// New returns a Store. lockTimeout bounds how long a request waits for
// another request on the same user before failing with domain.ErrAccountBusy.
func New(r Repo, catalog CurrencyLister, lockTimeout time.Duration) *Store {
	return &Store{
		repo:        r,
		catalog:     catalog,
		lockTimeout: lockTimeout,
		locks:       make(map[string]chan struct{}),
	}
}

// acquire takes the user's slot. Slots are never removed from the map; the
// user population is bounded and records are never deleted.
func (s *Store) acquire(ctx context.Context, username string) error {
	s.mu.Lock()
	slot, ok := s.locks[username]
	if !ok {
		slot = make(chan struct{}, 1)
		s.locks[username] = slot
	}
	s.mu.Unlock()

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrAccountBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(username string) {
	s.mu.Lock()
	slot := s.locks[username]
	s.mu.Unlock()

	<-slot
}

// Create initializes an empty record for the user with a zero balance for
// every currency the catalog knows. Called once, at registration.
func (s *Store) Create(ctx context.Context, username string) error {
	currencies, err := s.catalog.ListCurrencies(ctx)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, username, domain.NewAccountRecord(currencies))
}

// Load returns the user's record without locking. Use WithAccount for any
// read that feeds a write.
func (s *Store) Load(ctx context.Context, username string) (domain.AccountRecord, error) {
	return s.repo.Get(ctx, username)
}

// Save replaces the user's record under the per-user lock.
func (s *Store) Save(ctx context.Context, username string, record domain.AccountRecord) error {
	if err := s.acquire(ctx, username); err != nil {
		return err
	}
	defer s.release(username)

	return s.repo.Set(ctx, username, record)
}

// WithAccount is the mutation gateway: it locks the user's slot, loads the
// record, applies mutate, persists the result, and returns it. Mutation
// errors abort the cycle and nothing is written.
func (s *Store) WithAccount(ctx context.Context, username string, mutate func(*domain.AccountRecord) error) (domain.AccountRecord, error) {
	l := zerolog.Ctx(ctx)

	var record domain.AccountRecord

	if err := s.acquire(ctx, username); err != nil {
		l.Warn().Err(err).Str("username", username).Msg("account lock not acquired")
		return record, err
	}
	defer s.release(username)

	record, err := s.repo.Get(ctx, username)
	if err != nil {
		return record, err
	}

	if err := mutate(&record); err != nil {
		return record, err
	}

	if err := s.repo.Set(ctx, username, record); err != nil {
		return record, err
	}

	return record, nil
}
