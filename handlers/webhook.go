package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stayhub/services/booking"
	"stayhub/services/payment"
	"stayhub/utils"
)

// maxWebhookBody caps the payload read; Stripe events are a few KB.
const maxWebhookBody = 1 << 16

// WebhookHandler receives payment-processor callbacks. It verifies the
// signature, translates the payload and hands the event to reconciliation.
type WebhookHandler struct {
	verifier payment.EventVerifier
	bookings booking.BookingService
}

func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: utils.KindValidation, Message: "unreadable payload"})
		return
	}

	event, err := h.verifier.VerifyAndParse(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.GetLogger().Warn("rejected webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: utils.KindValidation, Message: "invalid signature"})
		return
	}
	if event == nil {
		// Event type we do not react to; acknowledge it.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.bookings.HandlePaymentEvent(c.Request.Context(), event); err != nil {
		// Non-2xx makes the processor redeliver; reconciliation is
		// idempotent, so retrying is safe.
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
