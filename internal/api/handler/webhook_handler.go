package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studahub/backend/pkg/logger"
	"github.com/studahub/backend/pkg/response"
)

// PaymentWebhook ingests gateway notifications. It always answers 200:
// failures are recorded on the stored event and reported out of band, and a
// non-200 would only make the provider hammer us with retries.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		logger.Warn("webhook body read failed", zap.Error(err))
		c.JSON(http.StatusOK, response.Response{Code: 0, Message: "received"})
		return
	}
	if err := h.webhooks.Process(c.Request.Context(), raw); err != nil {
		logger.Warn("webhook processing failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, response.Response{Code: 0, Message: "received"})
}
