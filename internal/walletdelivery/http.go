// Package walletdelivery manages delivery layer of wallets.
package walletdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by wallet delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package walletdelivery
type Service interface {
	Create(ctx context.Context, ownerID, name string, kind domain.WalletKind, balance, currency string) (domain.Wallet, error)
	Get(ctx context.Context, ownerID string, id int64) (domain.Wallet, error)
	List(ctx context.Context, ownerID string) ([]domain.Wallet, error)
	Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Wallet], error)
}

// Handler facilitates wallet delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns wallet handler.
func NewHandler(ws Service) *Handler {
	return &Handler{service: ws}
}

type walletData struct {
	Wallet domain.Wallet `json:"wallet"`
}

type walletsData struct {
	Wallets []domain.Wallet `json:"wallets"`
}

type createRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required,walletkind"`
	Balance  string `json:"balance"`
	Currency string `json:"currency" binding:"required,currency"`
}

// Create handles http request to create a wallet.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
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

	identity := middleware.Identity(gctx)

	wallet, err := h.service.Create(ctx, identity.ID, req.Name, domain.WalletKind(req.Kind), req.Balance, req.Currency)
	if err != nil {
		switch err {
		case domain.ErrInvalidWalletKind, domain.ErrUnsupportedCurrency, domain.ErrInvalidBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: walletData{Wallet: wallet}})
}

type getRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get a wallet of the signed in user.
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

	wallet, err := h.service.Get(ctx, middleware.Identity(gctx).ID, req.ID)
	if err != nil {
		if err == domain.ErrWalletNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: walletData{Wallet: wallet}})
}

// List handles http request to list the wallets of the signed in user.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	wallets, err := h.service.List(ctx, middleware.Identity(gctx).ID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: walletsData{Wallets: wallets}})
}

// Stream pushes the wallet list of the signed in user on every change.
func (h *Handler) Stream(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	stream, err := h.service.Watch(ctx, middleware.Identity(gctx).ID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer stream.Close()

	web.StartStream(gctx)

	for snapshot := range stream.C {
		if snapshot.Err != nil {
			web.SendEvent(gctx, "error", web.StreamError{
				Error: errorspkg.ErrInternal.Error(),
				Hint:  "wallets could not be loaded, the list refreshes on the next change or reload the page",
			})

			continue
		}

		web.SendEvent(gctx, "wallets", walletsData{Wallets: snapshot.Value})
	}
}
