// Package investmentdelivery manages delivery layer of investments.
package investmentdelivery

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

// Service provides service layer interface needed by investment delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package investmentdelivery
type Service interface {
	Create(ctx context.Context, ownerID, name, kind, amount, currentValue, startDate string) (domain.Investment, error)
	List(ctx context.Context, ownerID string) ([]domain.Investment, error)
	Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Investment], error)
}

// Handler facilitates investment delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns investment handler.
func NewHandler(is Service) *Handler {
	return &Handler{service: is}
}

type createRequest struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	CurrentValue string `json:"current_value"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

type investmentData struct {
	Investment domain.Investment `json:"investment"`
}

type investmentsData struct {
	Investments []domain.Investment `json:"investments"`
}

// Create handles http request to track a new investment.
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

	inv, err := h.service.Create(ctx, middleware.Identity(gctx).ID,
		req.Name, req.Kind, req.Amount, req.CurrentValue, req.StartDate)
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrNonPositiveAmount, domain.ErrInvalidDate:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: investmentData{Investment: inv}})
}

// List handles http request to list the investments of the signed in user.
func (h *Handler) List(gctx *gin.Context) {
	investments, err := h.service.List(gctx.Request.Context(), middleware.Identity(gctx).ID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: investmentsData{Investments: investments}})
}

// Stream pushes the investment list of the signed in user on every change.
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
				Hint:  "investments could not be loaded, the list refreshes on the next change or reload the page",
			})

			continue
		}

		web.SendEvent(gctx, "investments", investmentsData{Investments: snapshot.Value})
	}
}
