// Package cartdelivery manages delivery layer of shopping carts.
package cartdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/middleware"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
	"github.com/go-shopfront/shopfront/pkg/tokenpkg"
	"github.com/go-shopfront/shopfront/pkg/web"
)

// Service provides service layer interface needed by cart delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package cartdelivery
type Service interface {
	Get(ctx context.Context, username string) (domain.Cart, error)
	AddLine(ctx context.Context, username string, line domain.CartLine) (domain.Cart, error)
	RemoveLine(ctx context.Context, username string, itemID int32) (domain.Cart, error)
}

// Catalog provides the catalog lookups needed to price an added line.
type Catalog interface {
	GetItem(ctx context.Context, id int32) (domain.Item, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Handler facilitates cart delivery layer logic.
//
// Adding a line prices the item at that moment; the cart keeps the priced
// snapshot even when a later view of the same item quotes differently.
type Handler struct {
	service Service
	catalog Catalog
	pricing *pricing.Engine
	rng     randompkg.Intner
}

// NewHandler returns cart handler.
func NewHandler(cs Service, cat Catalog, pe *pricing.Engine, rng randompkg.Intner) *Handler {
	return &Handler{service: cs, catalog: cat, pricing: pe, rng: rng}
}

type data struct {
	Cart domain.Cart `json:"cart"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

func writeCartErr(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotFound, domain.ErrCartLineNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
		return
	case domain.ErrAccountBusy:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		return
	case domain.ErrAccountCorrupt:
		gctx.JSON(http.StatusInternalServerError, web.Error(err))
		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}

// Get handles http request to view the current cart.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	cart, err := h.service.Get(ctx, authPayload.Username)
	if err != nil {
		writeCartErr(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{cart}})
}

type addLineRequest struct {
	ItemID int32 `json:"item_id" binding:"required,min=1"`
}

// AddLine handles http request to add an item to the cart. The item is
// priced on the spot and the resulting snapshot becomes the cart line.
func (h *Handler) AddLine(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addLineRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	item, err := h.catalog.GetItem(ctx, req.ItemID)
	if err != nil {
		if err == domain.ErrItemNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	currencies, err := h.catalog.ListCurrencies(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	quote, err := h.pricing.ComputeQuote(item, currencies, h.rng)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	line := domain.CartLine{
		ItemID:          item.ID,
		CurrencyID:      quote.CurrencyID,
		Price:           quote.Price,
		DiscountPercent: quote.DiscountPercent,
		DiscountPrice:   quote.DiscountPrice,
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	cart, err := h.service.AddLine(ctx, authPayload.Username, line)
	if err != nil {
		writeCartErr(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{cart}})
}

type removeLineRequest struct {
	ItemID int32 `uri:"item_id" binding:"required,min=1"`
}

// RemoveLine handles http request to remove one cart line for an item.
// Only the first matching line is removed.
func (h *Handler) RemoveLine(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req removeLineRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	cart, err := h.service.RemoveLine(ctx, authPayload.Username, req.ItemID)
	if err != nil {
		writeCartErr(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{cart}})
}
