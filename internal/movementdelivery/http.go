// Package movementdelivery manages delivery layer of movements.
package movementdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/report"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by movement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package movementdelivery
type Service interface {
	Record(ctx context.Context, ownerID string, walletID int64, kind domain.MovementKind,
		amount, counterparty, date string) (domain.RecordMovementResult, error)
	RecordUnscoped(ctx context.Context, ownerID string, kind domain.MovementKind,
		amount, counterparty, date string, loc *domain.Location) (domain.Movement, error)
	List(ctx context.Context, ownerID string) ([]domain.Movement, error)
	Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Movement], error)
}

// WalletService provides the wallet collection the movement views resolve names from.
type WalletService interface {
	List(ctx context.Context, ownerID string) ([]domain.Wallet, error)
	Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Wallet], error)
}

// Handler facilitates movement delivery layer logic.
type Handler struct {
	service Service
	wallets WalletService
	now     func() time.Time
}

// NewHandler returns movement handler.
func NewHandler(ms Service, ws WalletService) *Handler {
	return &Handler{service: ms, wallets: ws, now: time.Now}
}

type createRequest struct {
	WalletID     int64  `json:"wallet_id" binding:"required,min=1"`
	Kind         string `json:"kind" binding:"required,movementkind"`
	Amount       string `json:"amount" binding:"required"`
	Counterparty string `json:"counterparty"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
}

type locationRequest struct {
	Lat     *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng     *float64 `json:"lng" binding:"required,min=-180,max=180"`
	Address string   `json:"address"`
}

type createUnscopedRequest struct {
	Kind         string           `json:"kind" binding:"required,movementkind"`
	Amount       string           `json:"amount" binding:"required"`
	Counterparty string           `json:"counterparty"`
	Date         string           `json:"date" binding:"required,datetime=2006-01-02"`
	Location     *locationRequest `json:"location"`
}

type movementData struct {
	Movement domain.Movement `json:"movement"`
}

type viewData struct {
	View report.View `json:"view"`
}

func statusOf(err error) int {
	switch err {
	case domain.ErrWalletNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidAmount, domain.ErrNonPositiveAmount, domain.ErrInvalidMovementKind, domain.ErrInvalidDate,
		report.ErrInvalidWalletFilter:
		return http.StatusBadRequest
	case domain.ErrUserNotFound:
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

// Create handles http request to record a movement against a wallet.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if !bind(gctx, &req) {
		return
	}

	ctx := gctx.Request.Context()

	result, err := h.service.Record(ctx, middleware.Identity(gctx).ID, req.WalletID,
		domain.MovementKind(req.Kind), req.Amount, req.Counterparty, req.Date)
	if err != nil {
		gctx.JSON(statusOf(err), web.Error(err))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

// CreateUnscoped handles http request to record a standalone movement that
// references no wallet.
func (h *Handler) CreateUnscoped(gctx *gin.Context) {
	var req createUnscopedRequest
	if !bind(gctx, &req) {
		return
	}

	var loc *domain.Location
	if req.Location != nil {
		loc = &domain.Location{Lat: *req.Location.Lat, Lng: *req.Location.Lng, Address: req.Location.Address}
	}

	ctx := gctx.Request.Context()

	m, err := h.service.RecordUnscoped(ctx, middleware.Identity(gctx).ID,
		domain.MovementKind(req.Kind), req.Amount, req.Counterparty, req.Date, loc)
	if err != nil {
		gctx.JSON(statusOf(err), web.Error(err))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movementData{Movement: m}})
}

// filter reads the view filter from the query string of the request.
func (h *Handler) filter(gctx *gin.Context) (report.Filter, error) {
	var q report.Query
	if err := gctx.ShouldBindQuery(&q); err != nil {
		return report.Filter{}, err
	}

	return q.Filter(domain.DateOf(h.now()))
}

// BuildView loads the owner's movements and wallets and computes the filtered view.
func (h *Handler) BuildView(ctx context.Context, ownerID string, f report.Filter) (report.View, error) {
	movements, err := h.service.List(ctx, ownerID)
	if err != nil {
		return report.View{}, err
	}

	wallets, err := h.wallets.List(ctx, ownerID)
	if err != nil {
		return report.View{}, err
	}

	return report.Build(movements, wallets, f), nil
}

// View handles http request to get the filtered movements view.
func (h *Handler) View(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	f, err := h.filter(gctx)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	view, err := h.BuildView(ctx, middleware.Identity(gctx).ID, f)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: viewData{View: view}})
}

const (
	walletsHint   = "wallets could not be loaded, the view refreshes on the next change or reload the page"
	movementsHint = "movements could not be loaded, the view refreshes on the next change or reload the page"
)

// Stream pushes the filtered movements view on every wallet or movement change.
func (h *Handler) Stream(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	f, err := h.filter(gctx)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	ownerID := middleware.Identity(gctx).ID

	wallets, err := h.wallets.Watch(ctx, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer wallets.Close()

	movements, err := h.service.Watch(ctx, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer movements.Close()

	web.StartStream(gctx)

	var (
		lastWallets   []domain.Wallet
		lastMovements []domain.Movement
		haveWallets   bool
		haveMovements bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-wallets.C:
			if !ok {
				return
			}

			if s.Err != nil {
				web.SendEvent(gctx, "error", web.StreamError{Error: errorspkg.ErrInternal.Error(), Hint: walletsHint})
				continue
			}

			lastWallets, haveWallets = s.Value, true
		case s, ok := <-movements.C:
			if !ok {
				return
			}

			if s.Err != nil {
				web.SendEvent(gctx, "error", web.StreamError{Error: errorspkg.ErrInternal.Error(), Hint: movementsHint})
				continue
			}

			lastMovements, haveMovements = s.Value, true
		}

		if haveWallets && haveMovements {
			web.SendEvent(gctx, "movements", viewData{View: report.Build(lastMovements, lastWallets, f)})
		}
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
