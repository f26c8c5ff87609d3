// Package sessiondelivery manages delivery layer of sessions.
package sessiondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by session delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package sessiondelivery
type Service interface {
	RenewAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error)
	SignOut(ctx context.Context, refreshToken string) error
}

// Handler facilitates session delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns session handler.
func NewHandler(ss Service) *Handler {
	return &Handler{
		service: ss,
	}
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RenewAccessToken handles http request to renew access token.
func (h *Handler) RenewAccessToken(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req refreshTokenRequest
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

	accessToken, accessTokenExpiresAt, err := h.service.RenewAccessToken(ctx, req.RefreshToken)
	if err != nil {
		gctx.JSON(statusOf(err), errorResponse(err))
		return
	}

	rsp := web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessTokenExpiresAt.Format(time.RFC3339),
	}
	gctx.JSON(http.StatusOK, rsp)
}

// SignOut handles http request to end the session of the refresh token.
func (h *Handler) SignOut(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req refreshTokenRequest
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

	if err := h.service.SignOut(ctx, req.RefreshToken); err != nil {
		gctx.JSON(statusOf(err), errorResponse(err))
		return
	}

	gctx.SetSameSite(http.SameSiteLaxMode)
	gctx.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	gctx.Status(http.StatusNoContent)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, tokenpkg.ErrInvalidToken),
		errors.Is(err, tokenpkg.ErrExpiredToken),
		errors.Is(err, domain.ErrBlockedSession),
		errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrMismatchedRefreshToken),
		errors.Is(err, domain.ErrExpiredSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

func errorResponse(err error) web.JSONError {
	if statusOf(err) == http.StatusInternalServerError {
		return web.Error(errorspkg.ErrInternal)
	}

	return web.Error(err)
}
