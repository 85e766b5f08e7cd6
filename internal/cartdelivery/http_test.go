package cartdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/middleware"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
	"github.com/go-shopfront/shopfront/pkg/tokenpkg"
	"github.com/go-shopfront/shopfront/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type cartData struct {
	Cart domain.Cart `json:"cart"`
}

func newTestServer(t *testing.T, tokenMaker tokenpkg.Maker, h *Handler) *gin.Engine {
	t.Helper()

	server := gin.New()

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/cart", h.Get)
	authRoutes.POST("/cart/lines", h.AddLine)
	authRoutes.DELETE("/cart/lines/:item_id", h.RemoveLine)

	return server
}

func testCart() domain.Cart {
	price := decimal.New(1099, -2)

	return domain.Cart{
		Lines: []domain.CartLine{
			{ItemID: 7, CurrencyID: 1, Price: price},
		},
		Summary: map[int32]decimal.Decimal{1: price},
	}
}

func TestGet(t *testing.T) {
	username := randompkg.Username()
	cart := testCart()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker() returned error: %v", err)
	}

	testCases := []struct {
		name           string
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(cartService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(cart, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*cartData)
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				if diff := cmp.Diff(cart, got.Cart); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authorization header is not provided",
		},
		{
			name: "ErrAccountNotFound",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Cart{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "ErrAccountBusy",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Cart{}, domain.ErrAccountBusy)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrAccountBusy.Error(),
		},
		{
			name: "ErrAccountCorrupt",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Cart{}, domain.ErrAccountCorrupt)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrAccountCorrupt.Error(),
		},
		{
			name: "InternalServerError",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Cart{}, errorspkg.ErrInternal)
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
			cartService := NewMockService(ctrl)
			catalog := NewMockCatalog(ctrl)
			handler := NewHandler(cartService, catalog, pricing.New(), randompkg.NewLockedRand(1))

			server := newTestServer(t, tokenMaker, handler)

			tc.buildStubs(cartService)

			req, err := http.NewRequest(http.MethodGet, "/cart", nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &cartData{}}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestAddLine(t *testing.T) {
	username := randompkg.Username()

	specialPrice := decimal.New(499, -2)
	specialCurrencyID := int32(2)
	item := domain.Item{
		ID:                7,
		Name:              "mug",
		SpecialPrice:      &specialPrice,
		SpecialCurrencyID: &specialCurrencyID,
	}
	currencies := []domain.Currency{
		{ID: 1, DisplayAsset: "gold.png", IsInteger: true},
		{ID: 2, DisplayAsset: "gem.png", IsInteger: false},
	}

	wantLine := domain.CartLine{
		ItemID:     item.ID,
		CurrencyID: specialCurrencyID,
		Price:      specialPrice,
	}
	wantCart := domain.Cart{
		Lines:   []domain.CartLine{wantLine},
		Summary: map[int32]decimal.Decimal{specialCurrencyID: specialPrice},
	}

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker() returned error: %v", err)
	}

	type requestBody struct {
		ItemID int32 `json:"item_id"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(cartService *MockService, catalog *MockCatalog)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:        "OK",
			requestBody: requestBody{ItemID: item.ID},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService, catalog *MockCatalog) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(item.ID)).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(currencies, nil)

				cartService.EXPECT().
					AddLine(gomock.Any(), gomock.Eq(username), gomock.Eq(wantLine)).
					Times(1).
					Return(wantCart, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*cartData)
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				if diff := cmp.Diff(wantCart, got.Cart); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:        "MissingItemID",
			requestBody: requestBody{},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService, catalog *MockCatalog) {
				catalog.EXPECT().GetItem(gomock.Any(), gomock.Any()).Times(0)
				cartService.EXPECT().AddLine(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ItemID field is required",
		},
		{
			name:        "ErrItemNotFound",
			requestBody: requestBody{ItemID: item.ID},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService, catalog *MockCatalog) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(item.ID)).
					Times(1).
					Return(domain.Item{}, domain.ErrItemNotFound)

				cartService.EXPECT().AddLine(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrItemNotFound.Error(),
		},
		{
			name:        "ErrAccountBusy",
			requestBody: requestBody{ItemID: item.ID},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService, catalog *MockCatalog) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(item.ID)).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(currencies, nil)

				cartService.EXPECT().
					AddLine(gomock.Any(), gomock.Eq(username), gomock.Eq(wantLine)).
					Times(1).
					Return(domain.Cart{}, domain.ErrAccountBusy)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrAccountBusy.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: requestBody{ItemID: item.ID},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService, catalog *MockCatalog) {
				catalog.EXPECT().
					GetItem(gomock.Any(), gomock.Eq(item.ID)).
					Times(1).
					Return(item, nil)

				catalog.EXPECT().
					ListCurrencies(gomock.Any()).
					Times(1).
					Return(currencies, nil)

				cartService.EXPECT().
					AddLine(gomock.Any(), gomock.Eq(username), gomock.Eq(wantLine)).
					Times(1).
					Return(domain.Cart{}, errorspkg.ErrInternal)
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
			cartService := NewMockService(ctrl)
			catalog := NewMockCatalog(ctrl)
			handler := NewHandler(cartService, catalog, pricing.New(), randompkg.NewLockedRand(1))

			server := newTestServer(t, tokenMaker, handler)

			tc.buildStubs(cartService, catalog)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/cart/lines", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &cartData{}}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestRemoveLine(t *testing.T) {
	username := randompkg.Username()
	emptied := domain.Cart{
		Lines:   []domain.CartLine{},
		Summary: map[int32]decimal.Decimal{1: decimal.Zero},
	}

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker() returned error: %v", err)
	}

	testCases := []struct {
		name           string
		url            string
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(cartService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name: "OK",
			url:  "/cart/lines/7",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					RemoveLine(gomock.Any(), gomock.Eq(username), gomock.Eq(int32(7))).
					Times(1).
					Return(emptied, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*cartData)
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				if diff := cmp.Diff(emptied, got.Cart); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "InvalidItemID",
			url:  "/cart/lines/0",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().RemoveLine(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ItemID field is required",
		},
		{
			name: "ErrCartLineNotFound",
			url:  "/cart/lines/7",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(cartService *MockService) {
				cartService.EXPECT().
					RemoveLine(gomock.Any(), gomock.Eq(username), gomock.Eq(int32(7))).
					Times(1).
					Return(domain.Cart{}, domain.ErrCartLineNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrCartLineNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			cartService := NewMockService(ctrl)
			catalog := NewMockCatalog(ctrl)
			handler := NewHandler(cartService, catalog, pricing.New(), randompkg.NewLockedRand(1))

			server := newTestServer(t, tokenMaker, handler)

			tc.buildStubs(cartService)

			req, err := http.NewRequest(http.MethodDelete, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &cartData{}}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}
