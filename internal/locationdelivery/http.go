// Package locationdelivery manages delivery layer of the location picker.
package locationdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Geocoder provides reverse geocoding needed by location delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package locationdelivery
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) domain.Location
}

// Handler facilitates location delivery layer logic.
type Handler struct {
	geocoder Geocoder
}

// NewHandler returns location handler.
func NewHandler(g Geocoder) *Handler {
	return &Handler{geocoder: g}
}

type reverseRequest struct {
	Lat *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `form:"lng" binding:"required,min=-180,max=180"`
}

type locationData struct {
	Location domain.Location `json:"location"`
}

// Reverse handles http request to resolve the address of a picked point.
//
// Resolution failures are not errors: the address falls back to the coordinates.
func (h *Handler) Reverse(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req reverseRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	loc := h.geocoder.Reverse(ctx, *req.Lat, *req.Lng)

	gctx.JSON(http.StatusOK, web.Response{Data: locationData{Location: loc}})
}
