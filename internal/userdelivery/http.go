// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
}

// SessionMaker facilitates session creation.
type SessionMaker interface {
	Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service      Service
	sessionMaker SessionMaker
	broker       livefeed.Broker
}

// NewHandler returns user handler.
func NewHandler(us Service, sm SessionMaker, b livefeed.Broker) *Handler {
	return &Handler{
		service:      us,
		sessionMaker: sm,
		broker:       b,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type identityData struct {
	Identity domain.Identity `json:"identity"`
}

// SignUp handles http request to register a user and opens its session.
func (h *Handler) SignUp(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req credentialsRequest
	if !bind(gctx, &req) {
		return
	}

	identity, err := h.service.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrEmailInUse:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case domain.ErrWeakPassword:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.openSession(gctx, identity)
}

// SignIn handles http sign in request and returns identity and session data.
func (h *Handler) SignIn(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req credentialsRequest
	if !bind(gctx, &req) {
		return
	}

	identity, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.openSession(gctx, identity)
}

func (h *Handler) openSession(gctx *gin.Context, identity domain.Identity) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	arg := domain.CreateSessionParams{
		UserID:    identity.ID,
		Email:     identity.Email,
		UserAgent: gctx.Request.UserAgent(),
		ClientIP:  gctx.ClientIP(),
	}

	accessToken, accessTokenExpiresAt, session, err := h.sessionMaker.Create(ctx, arg)
	if err != nil {
		l.Warn().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	maxAge := int(time.Until(accessTokenExpiresAt).Seconds())
	gctx.SetSameSite(http.SameSiteLaxMode)
	gctx.SetCookie(middleware.AccessTokenCookie, accessToken, maxAge, "/", "", false, true)

	res := web.Response{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt.Format(time.RFC3339),
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		Data:                  identityData{Identity: identity},
	}

	gctx.JSON(http.StatusOK, res)
}

// Identity returns the identity behind the access token.
func (h *Handler) Identity(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, web.Response{Data: identityData{Identity: middleware.Identity(gctx)}})
}

// IdentityStream sends the current identity and then null once the user
// signs out.
func (h *Handler) IdentityStream(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	identity := middleware.Identity(gctx)

	sub, err := h.broker.Subscribe(ctx, livefeed.IdentityTopic(identity.ID))
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer sub.Close()

	web.StartStream(gctx)
	web.SendEvent(gctx, "identity", identity)

	select {
	case <-ctx.Done():
	case <-sub.C:
		web.SendEvent(gctx, "identity", web.Null)
	}
}

// bind binds the JSON body into req and answers 400 when it is invalid.
func bind(gctx *gin.Context, req any) bool {
	err := gctx.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return false
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))

	return false
}
