// Package bonusdelivery manages delivery layer of welcome bonuses.
package bonusdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/go-shopfront/shopfront/internal/domain"
	"github.com/go-shopfront/shopfront/internal/middleware"
	"github.com/go-shopfront/shopfront/pkg/errorspkg"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
	"github.com/go-shopfront/shopfront/pkg/tokenpkg"
	"github.com/go-shopfront/shopfront/pkg/web"
)

// Service provides service layer interface needed by bonus delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package bonusdelivery
type Service interface {
	GrantBonus(ctx context.Context, username string, rng randompkg.Intner) (domain.AccountRecord, error)
}

// Handler facilitates bonus delivery layer logic.
type Handler struct {
	service Service
	rng     randompkg.Intner
}

// NewHandler returns bonus handler.
func NewHandler(bs Service, rng randompkg.Intner) *Handler {
	return &Handler{service: bs, rng: rng}
}

type data struct {
	Balances     map[int32]decimal.Decimal `json:"balances"`
	BonusGranted bool                      `json:"bonus_granted"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

// Grant handles http request to credit the welcome bonus.
func (h *Handler) Grant(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	record, err := h.service.GrantBonus(ctx, authPayload.Username, h.rng)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
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

		return
	}

	res := response{
		Data: data{
			Balances:     record.Balances,
			BonusGranted: record.BonusGranted,
		},
	}

	gctx.JSON(http.StatusOK, res)
}
