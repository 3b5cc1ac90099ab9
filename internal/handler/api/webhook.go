package api

import (
	"io"
	"net/http"

	"leadgate/internal/domain/payment"
	resdto "leadgate/internal/handler/dto/response"
	"leadgate/internal/handler/httperr"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	webhookCommands commands.WebhookCommands
}

func NewWebhookHandler(webhookCommands commands.WebhookCommands) *WebhookHandler {
	return &WebhookHandler{webhookCommands: webhookCommands}
}

// @Summary Stripe webhook
// @Description Receive signed payment confirmations from the gateway
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} map[string]string
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable request body", nil)
		return
	}

	result, err := h.webhookCommands.Reconcile(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		switch {
		case errs.Is(err, payment.ErrInvalidSignature):
			// 4xx tells the gateway the delivery was rejected outright.
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Webhook signature verification failed", nil)
		case errs.Is(err, payment.ErrInvalidPayload),
			errs.Is(err, payment.ErrInvalidEvent),
			errs.Is(err, payment.ErrMissingMetadata):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed webhook event", nil)
		case errs.Is(err, commands.ErrLeadNotFound):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown lead for payment event", nil)
		case errs.Is(err, commands.ErrLeadFull):
			// Retries cannot free a slot; ack so the gateway stops, and
			// leave compensation to the operator alert already emitted.
			c.JSON(http.StatusOK, resdto.WebhookResponse{
				Received: true,
				Conflict: "capacity_exceeded",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	// Duplicates ack success too, so redeliveries drain instead of looping.
	c.JSON(http.StatusOK, resdto.WebhookResponse{
		Received: true,
		Outcome:  string(result.Outcome),
	})
}
