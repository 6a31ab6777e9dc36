// controllers/webhook.go
package controllers

import (
	"io"
	"net/http"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type WebhookController struct {
	secret   string
	bookings *services.BookingService
}

func NewWebhookController(secret string, bookings *services.BookingService) *WebhookController {
	return &WebhookController{secret: secret, bookings: bookings}
}

// HandleStripe confirms the booking named in a succeeded payment intent.
// Deliveries for bookings that are gone or already settled are acknowledged
// so Stripe stops retrying; storage failures return 500 to get a redelivery.
func (wc *WebhookController) HandleStripe(c *gin.Context) {
	if wc.secret == "" {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Webhook not configured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), wc.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		zap.S().Warnf("stripe webhook rejected: %v", err)
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid signature")
		return
	}

	if event.Type != "payment_intent.succeeded" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if event.Data == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	bookingID, err := uuid.Parse(intent.Metadata["booking_id"])
	if err != nil {
		zap.S().Infof("payment intent %s carries no booking", intent.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	booking, err := wc.bookings.UpdateStatus(c.Request.Context(), bookingID, models.BookingConfirmed)
	switch {
	case err == nil:
		if booking.PaymentIntentID == "" {
			if err := wc.bookings.AttachPaymentIntent(c.Request.Context(), bookingID, intent.ID); err != nil {
				zap.S().Warnf("attach payment intent %s: %v", intent.ID, err)
			}
		}
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrInvalidTransition):
		zap.S().Warnf("payment %s not applied to booking %s: %v", intent.ID, bookingID, err)
	default:
		zap.S().Errorf("confirm booking %s from webhook: %v", bookingID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
