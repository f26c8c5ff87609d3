// Package pagedelivery serves the view models of the application pages.
package pagedelivery

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/navigation"
	"github.com/go-petr/pet-wallet/internal/report"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/rs/zerolog"
)

// ErrRouteNotFound is returned for unknown API routes.
var ErrRouteNotFound = errors.New("route not found")

// WalletLister provides the wallets shown on the dashboard.
//
//go:generate mockgen -source http.go -destination http_mock.go -package pagedelivery
type WalletLister interface {
	List(ctx context.Context, ownerID string) ([]domain.Wallet, error)
}

// MovementViews computes the movements page.
type MovementViews interface {
	BuildView(ctx context.Context, ownerID string, f report.Filter) (report.View, error)
}

// InvestmentLister provides the investments page.
type InvestmentLister interface {
	List(ctx context.Context, ownerID string) ([]domain.Investment, error)
}

// Handler facilitates page delivery logic.
type Handler struct {
	wallets     WalletLister
	movements   MovementViews
	investments InvestmentLister
	now         func() time.Time
}

// NewHandler returns page handler.
func NewHandler(wl WalletLister, mv MovementViews, il InvestmentLister) *Handler {
	return &Handler{wallets: wl, movements: mv, investments: il, now: time.Now}
}

// Page is the view model of one page.
type Page struct {
	Name        string              `json:"page"`
	Identity    *domain.Identity    `json:"identity,omitempty"`
	Wallets     []domain.Wallet     `json:"wallets,omitempty"`
	View        *report.View        `json:"view,omitempty"`
	WalletKinds []domain.WalletKind `json:"wallet_kinds,omitempty"`
	Currencies  []string            `json:"currencies,omitempty"`
	Investments []domain.Investment `json:"investments,omitempty"`
}

// Serve guards the page behind the session and renders its view model.
//
// It is registered for every page path and as the fallback route, so unknown
// paths are redirected like the pages they resolve to.
func (h *Handler) Serve(gctx *gin.Context) {
	path := gctx.Request.URL.Path

	if path == "/api" || strings.HasPrefix(path, "/api/") {
		gctx.JSON(http.StatusNotFound, web.Error(ErrRouteNotFound))
		return
	}

	target, redirect := navigation.Resolve(path, middleware.Authenticated(gctx))
	if redirect {
		gctx.Redirect(http.StatusFound, target)
		return
	}

	if target == navigation.Login {
		gctx.JSON(http.StatusOK, web.Response{Data: Page{Name: "login"}})
		return
	}

	ctx := gctx.Request.Context()
	identity := middleware.Identity(gctx)

	page, err := h.render(ctx, gctx, target, identity)
	if err != nil {
		if err == report.ErrInvalidWalletFilter || err == domain.ErrInvalidDate || err == domain.ErrInvalidMovementKind {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		zerolog.Ctx(ctx).Error().Err(err).Str("page", target).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	page.Identity = &identity

	gctx.JSON(http.StatusOK, web.Response{Data: page})
}

func (h *Handler) render(ctx context.Context, gctx *gin.Context, target string, identity domain.Identity) (Page, error) {
	switch target {
	case navigation.Dashboard:
		wallets, err := h.wallets.List(ctx, identity.ID)
		if err != nil {
			return Page{}, err
		}

		return Page{Name: "dashboard", Wallets: nonNil(wallets)}, nil
	case navigation.Movements:
		var q report.Query
		if err := gctx.ShouldBindQuery(&q); err != nil {
			return Page{}, err
		}

		f, err := q.Filter(domain.DateOf(h.now()))
		if err != nil {
			return Page{}, err
		}

		view, err := h.movements.BuildView(ctx, identity.ID, f)
		if err != nil {
			return Page{}, err
		}

		return Page{Name: "movements", View: &view}, nil
	case navigation.Setup:
		return Page{
			Name:        "setup",
			WalletKinds: domain.WalletKinds,
			Currencies:  currencypkg.SupportedCurrencies,
		}, nil
	case navigation.Investments:
		investments, err := h.investments.List(ctx, identity.ID)
		if err != nil {
			return Page{}, err
		}

		return Page{Name: "investments", Investments: investments}, nil
	}

	return Page{}, ErrRouteNotFound
}

func nonNil(wallets []domain.Wallet) []domain.Wallet {
	if wallets == nil {
		return []domain.Wallet{}
	}
	return wallets
}
