package handler

import (
	"io"
	"net/http"

	"agrofeira/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /webhooks/payment ゲートウェイからの通知受け口。認証はHMAC署名。
type WebhookHandler struct {
	payments *usecase.PaymentUsecase
}

func NewWebhookHandler(payments *usecase.PaymentUsecase) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/payment", h.payment)
}

func (h *WebhookHandler) payment(c echo.Context) error {
	// 署名は生のbodyに対して検証するため、Bindの前に読み切る
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	signature := c.Request().Header.Get("X-Signature")

	if err := h.payments.Reconcile(c.Request().Context(), body, signature); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
