// controllers/payment.go
package controllers

import (
	"net/http"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CreatePaymentIntentInput carries either an explicit amount or the booking
// being paid for. A booking id takes precedence and charges its stored total.
type CreatePaymentIntentInput struct {
	Amount    *float64 `json:"amount"`
	BookingID string   `json:"bookingId"`
}

type PaymentController struct {
	gateway        services.PaymentGateway
	bookings       *services.BookingService
	publishableKey string
	currency       string
}

func NewPaymentController(gateway services.PaymentGateway, bookings *services.BookingService, publishableKey, currency string) *PaymentController {
	return &PaymentController{
		gateway:        gateway,
		bookings:       bookings,
		publishableKey: publishableKey,
		currency:       currency,
	}
}

func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var input CreatePaymentIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: malformed request body")
		return
	}

	var (
		amount    float64
		bookingID uuid.UUID
	)
	if input.BookingID != "" {
		id, err := uuid.Parse(input.BookingID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID")
			return
		}
		booking, err := pc.bookings.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
				return
			}
			zap.S().Errorf("load booking %s for payment: %v", id, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if booking.Status != models.BookingPending {
			utils.RespondWithError(c, http.StatusConflict, "Booking is not awaiting payment")
			return
		}
		bookingID = id
		amount = booking.TotalPrice
	} else {
		if input.Amount == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: amount is required")
			return
		}
		amount = *input.Amount
	}

	if err := services.ValidateChargeAmount(amount); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: amount must be at least 1")
		return
	}

	ref := ""
	if bookingID != uuid.Nil {
		ref = bookingID.String()
	}
	intent, err := pc.gateway.CreateIntent(c.Request.Context(), amount, ref)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: amount must be at least 1")
			return
		}
		zap.S().Errorf("create payment intent: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if bookingID != uuid.Nil {
		if err := pc.bookings.AttachPaymentIntent(c.Request.Context(), bookingID, intent.ID); err != nil {
			zap.S().Warnf("attach payment intent %s to booking %s: %v", intent.ID, bookingID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// GetConfig exposes the values the browser needs to mount the payment UI
func (pc *PaymentController) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publishableKey": pc.publishableKey,
		"currency":       pc.currency,
	})
}
