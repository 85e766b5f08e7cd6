// Package itemdelivery manages delivery layer of catalog items.
package itemdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
	"github.com/go-shopfront/shopfront/pkg/web"
)

// Service provides service layer interface needed by item delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package itemdelivery
type Service interface {
	GetItem(ctx context.Context, id int32) (domain.Item, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Handler facilitates item delivery layer logic.
//
// Every request computes a fresh quote so the same item may show a
// different price and discount on every view.
type Handler struct {
	service Service
	pricing *pricing.Engine
	rng     randompkg.Intner
}

// NewHandler returns item handler.
func NewHandler(cs Service, pe *pricing.Engine, rng randompkg.Intner) *Handler {
	return &Handler{service: cs, pricing: pe, rng: rng}
}

type data struct {
	Item  domain.Item       `json:"item"`
	Quote domain.PriceQuote `json:"quote"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type getRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to view an item with a freshly computed price.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
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

	item, err := h.service.GetItem(ctx, req.ID)
	if err != nil {
		if err == domain.ErrItemNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	currencies, err := h.service.ListCurrencies(ctx)
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

	res := response{
		Data: data{Item: item, Quote: quote},
	}

	gctx.JSON(http.StatusOK, res)
}
