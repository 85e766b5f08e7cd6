package catalogrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
)

func TestGetItem(t *testing.T) {
	t.Parallel()

	specialPrice := decimal.RequireFromString("4.99")
	specialCurrencyID := int32(2)

	item := domain.Item{
		ID:          7,
		Name:        "mug",
		Description: []string{"a mug", "holds coffee"},
		ImageAsset:  "mug.png",
	}
	specialItem := domain.Item{
		ID:                8,
		Name:              "cape",
		Description:       []string{},
		ImageAsset:        "cape.png",
		SpecialPrice:      &specialPrice,
		SpecialCurrencyID: &specialCurrencyID,
	}

	columns := []string{"id", "name", "description", "image_asset", "special_price", "special_currency_id"}

	testCases := []struct {
		name       string
		id         int32
		buildStubs func(mock sqlmock.Sqlmock)
		wantErr    error
		want       domain.Item
	}{
		{
			name: "OK",
			id:   item.ID,
			buildStubs: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(item.ID, item.Name, `{"a mug","holds coffee"}`, item.ImageAsset, nil, nil)
				mock.ExpectQuery("SELECT(.|\n)+FROM items").WithArgs(item.ID).WillReturnRows(rows)
			},
			want: item,
		},
		{
			name: "SpecialPrice",
			id:   specialItem.ID,
			buildStubs: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(specialItem.ID, specialItem.Name, "{}", specialItem.ImageAsset, "4.99", 2)
				mock.ExpectQuery("SELECT(.|\n)+FROM items").WithArgs(specialItem.ID).WillReturnRows(rows)
			},
			want: specialItem,
		},
		{
			name: "NotFound",
			id:   404,
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT(.|\n)+FROM items").WithArgs(int32(404)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrItemNotFound,
		},
		{
			name: "Internal",
			id:   item.ID,
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT(.|\n)+FROM items").WithArgs(item.ID).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tc.buildStubs(mock)

			repo := NewRepoPGS(db)

			got, err := repo.GetItem(context.Background(), tc.id)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)

				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Errorf("GetItem() returned unexpected diff: %v", diff)
				}
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetCurrency(t *testing.T) {
	t.Parallel()

	currency := domain.Currency{ID: 1, DisplayAsset: "gold.png", IsInteger: true}

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "display_asset", "is_integer"}).
			AddRow(currency.ID, currency.DisplayAsset, currency.IsInteger)
		mock.ExpectQuery("SELECT(.|\n)+FROM currencies").WithArgs(currency.ID).WillReturnRows(rows)

		repo := NewRepoPGS(db)

		got, err := repo.GetCurrency(context.Background(), currency.ID)
		require.NoError(t, err)
		require.Equal(t, currency, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT(.|\n)+FROM currencies").WithArgs(int32(404)).
			WillReturnError(sql.ErrNoRows)

		repo := NewRepoPGS(db)

		_, err = repo.GetCurrency(context.Background(), 404)
		require.ErrorIs(t, err, domain.ErrCurrencyNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListCurrencies(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := []domain.Currency{
		{ID: 1, DisplayAsset: "gold.png", IsInteger: true},
		{ID: 2, DisplayAsset: "gem.png", IsInteger: false},
	}

	rows := sqlmock.NewRows([]string{"id", "display_asset", "is_integer"})
	for _, c := range want {
		rows.AddRow(c.ID, c.DisplayAsset, c.IsInteger)
	}

	mock.ExpectQuery("SELECT(.|\n)+FROM currencies(.|\n)+ORDER BY id").WillReturnRows(rows)

	repo := NewRepoPGS(db)

	got, err := repo.ListCurrencies(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListCurrencies() returned unexpected diff: %v", diff)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListStores(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := []domain.Store{
		{ID: 1, Name: "main", ImageAsset: "main.png"},
		{ID: 2, Name: "outlet", ImageAsset: "outlet.png"},
	}

	rows := sqlmock.NewRows([]string{"id", "name", "image_asset"})
	for _, s := range want {
		rows.AddRow(s.ID, s.Name, s.ImageAsset)
	}

	mock.ExpectQuery("SELECT(.|\n)+FROM stores(.|\n)+ORDER BY id").WillReturnRows(rows)

	repo := NewRepoPGS(db)

	got, err := repo.ListStores(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListStores() returned unexpected diff: %v", diff)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}
