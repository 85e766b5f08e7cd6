package itemdelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
	"github.com/go-shopfront/shopfront/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// scriptedRand returns a fixed sequence of draws.
type scriptedRand struct {
	draws []int
	pos   int
}

func (r *scriptedRand) Intn(n int) int {
	if r.pos >= len(r.draws) {
		panic("scriptedRand: out of draws")
	}

	v := r.draws[r.pos]
	if v >= n {
		panic("scriptedRand: draw out of range")
	}

	r.pos++

	return v
}

type itemData struct {
	Item  domain.Item       `json:"item"`
	Quote domain.PriceQuote `json:"quote"`
}

func TestGet(t *testing.T) {
	item := domain.Item{
		ID:          7,
		Name:        "mug",
		Description: []string{"a mug"},
		ImageAsset:  "mug.png",
	}

	specialPrice := decimal.New(499, -2)
	specialCurrencyID := int32(2)
	specialItem := domain.Item{
		ID:                8,
		Name:              "cape",
		SpecialPrice:      &specialPrice,
		SpecialCurrencyID: &specialCurrencyID,
	}

	currencies := []domain.Currency{
		{ID: 1, DisplayAsset: "gold.png", IsInteger: true},
		{ID: 2, DisplayAsset: "gem.png", IsInteger: false},
	}

	testCases := []struct {
		name           string
		url            string
		draws          []int
		buildStubs     func(catalog *MockService)
		wantStatusCode int
		wantError      string
		wantData       *itemData
	}{
		{
			name: "OK",
			url:  "/items/7",
			// raw 500, exponent 2, currency 0, no discount trigger.
			draws: []int{500, 2, 0, 8},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(int32(7))).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(currencies, nil)
			},
			wantStatusCode: http.StatusOK,
			wantData: &itemData{
				Item: item,
				Quote: domain.PriceQuote{
					Price:      decimal.NewFromInt(5),
					CurrencyID: 1,
				},
			},
		},
		{
			name:  "SpecialPrice",
			url:   "/items/8",
			draws: []int{},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(int32(8))).
					Times(1).
					Return(specialItem, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(currencies, nil)
			},
			wantStatusCode: http.StatusOK,
			wantData: &itemData{
				Item: specialItem,
				Quote: domain.PriceQuote{
					Price:      specialPrice,
					CurrencyID: specialCurrencyID,
				},
			},
		},
		{
			name:  "InvalidID",
			url:   "/items/0",
			draws: []int{},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().GetItem(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ID field is required",
		},
		{
			name:  "ErrItemNotFound",
			url:   "/items/7",
			draws: []int{},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(int32(7))).
					Times(1).
					Return(domain.Item{}, domain.ErrItemNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrItemNotFound.Error(),
		},
		{
			name:  "CurrenciesError",
			url:   "/items/7",
			draws: []int{},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(int32(7))).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
		{
			name:  "NoCurrencies",
			url:   "/items/7",
			draws: []int{},
			buildStubs: func(catalog *MockService) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(int32(7))).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return([]domain.Currency{}, nil)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			catalog := NewMockService(ctrl)
			handler := NewHandler(catalog, pricing.New(), &scriptedRand{draws: tc.draws})

			server := gin.New()
			server.GET("/items/:id", handler.Get)

			tc.buildStubs(catalog)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &itemData{}}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got, ok := res.Data.(*itemData)
			if !ok {
				t.Fatalf(`res.Data=%v, failed type conversion`, res.Data)
			}

			if diff := cmp.Diff(*tc.wantData, *got); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
