package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/payment"
	"github.com/fourways-coffee/storefront/internal/service"
	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 64 << 10

type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (payment.Event, error)
}

type CheckoutHandler struct {
	checkout    *service.CheckoutService
	fulfillment *service.FulfillmentService
	verifier    WebhookVerifier
	logger      *zap.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, fulfillment *service.FulfillmentService, verifier WebhookVerifier, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:    checkout,
		fulfillment: fulfillment,
		verifier:    verifier,
		logger:      logger,
	}
}

func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	url, err := h.checkout.Start(c.Request.Context(), session.From(c).Cart(), baseURL(c))
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.Redirect(http.StatusFound, "/")
		case errors.As(err, &ve):
			c.String(http.StatusBadRequest, ve.Reason)
		default:
			h.logger.Error("Failed to create checkout session",
				zap.String("request_id", requestID(c)),
				zap.Error(err))
			c.String(http.StatusInternalServerError, "Unable to create checkout session.")
		}
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// StripeWebhook verifies the signature over the raw body before anything is
// decoded. Every event type other than a completed checkout is acknowledged
// untouched.
func (h *CheckoutHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event, err := h.verifier.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("Webhook signature verification failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	if event.Type != payment.EventCheckoutSessionCompleted || event.Session == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome, err := h.fulfillment.Fulfill(c.Request.Context(), event.Session, requestID(c))
	if err != nil {
		h.logger.Error("Failed to fulfill checkout session",
			zap.String("request_id", requestID(c)),
			zap.String("event_id", event.ID),
			zap.String("session_id", event.Session.ID),
			zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	h.logger.Info("Webhook processed",
		zap.String("event_id", event.ID),
		zap.String("session_id", event.Session.ID),
		zap.String("outcome", outcome.String()))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
