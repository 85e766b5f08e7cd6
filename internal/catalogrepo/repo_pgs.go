// Package catalogrepo manages repository layer of the read-only catalog.
package catalogrepo

import (
	"context"
	"database/sql"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/pkg/dbpkg"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates catalog repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns catalog RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const getItemQuery = `
SELECT
	id, name, description, image_asset, special_price, special_currency_id
FROM items
WHERE id = $1
`

// GetItem returns the item with the given id.
func (r *RepoPGS) GetItem(ctx context.Context, id int32) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getItemQuery, id)

	var (
		i                 domain.Item
		specialPrice      decimal.NullDecimal
		specialCurrencyID sql.NullInt32
	)

	err := row.Scan(
		&i.ID,
		&i.Name,
		pq.Array(&i.Description),
		&i.ImageAsset,
		&specialPrice,
		&specialCurrencyID,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return i, domain.ErrItemNotFound
		}

		return i, errorspkg.ErrInternal
	}

	if specialPrice.Valid {
		i.SpecialPrice = &specialPrice.Decimal
	}

	if specialCurrencyID.Valid {
		i.SpecialCurrencyID = &specialCurrencyID.Int32
	}

	return i, nil
}

const getCurrencyQuery = `
SELECT
	id, display_asset, is_integer
FROM currencies
WHERE id = $1
`

// GetCurrency returns the currency with the given id.
func (r *RepoPGS) GetCurrency(ctx context.Context, id int32) (domain.Currency, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getCurrencyQuery, id)

	var c domain.Currency

	err := row.Scan(&c.ID, &c.DisplayAsset, &c.IsInteger)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCurrencyNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listCurrenciesQuery = `
SELECT
	id, display_asset, is_integer
FROM currencies
ORDER BY id
`

// ListCurrencies returns every currency the catalog knows, ordered by id.
func (r *RepoPGS) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listCurrenciesQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Currency{}

	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.DisplayAsset, &c.IsInteger); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listStoresQuery = `
SELECT
	id, name, image_asset
FROM stores
ORDER BY id
`

// ListStores returns every configured storefront, ordered by id.
func (r *RepoPGS) ListStores(ctx context.Context) ([]domain.Store, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listStoresQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Store{}

	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageAsset); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
