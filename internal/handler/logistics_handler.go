package handler

import (
	"net/http"

	"agrofeira/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 受取拠点・配達地域の公開一覧
type LogisticsHandler struct {
	uc *usecase.LogisticsUsecase
}

func NewLogisticsHandler(uc *usecase.LogisticsUsecase) *LogisticsHandler {
	return &LogisticsHandler{uc: uc}
}

func (h *LogisticsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/pickup-points", h.pickupPoints)
	e.GET("/delivery-zones", h.deliveryZones)
}

func (h *LogisticsHandler) pickupPoints(c echo.Context) error {
	out, err := h.uc.ListPickupPoints(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LogisticsHandler) deliveryZones(c echo.Context) error {
	out, err := h.uc.ListDeliveryZones(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
