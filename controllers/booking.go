// controllers/booking.go
package controllers

import (
	"bytes"
	"net/http"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UpdateBookingInput defines the expected JSON structure for a status change
type UpdateBookingInput struct {
	Status models.BookingStatus `json:"status"`
}

type BookingController struct {
	bookings *services.BookingService
	receipts *services.ReceiptService
}

func NewBookingController(bookings *services.BookingService, receipts *services.ReceiptService) *BookingController {
	return &BookingController{bookings: bookings, receipts: receipts}
}

// CreateBooking validates the submission and stores a pending booking priced
// from the car's daily rate
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input utils.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	validated, verrs := utils.ValidateBooking(input)
	if len(verrs) > 0 {
		utils.RespondWithValidation(c, verrs)
		return
	}

	booking, err := bc.bookings.Create(c.Request.Context(), validated)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Car not found")
			return
		}
		zap.S().Errorf("create booking: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists every booking, newest first
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.bookings.List(c.Request.Context())
	if err != nil {
		zap.S().Errorf("list bookings: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking confirms or cancels a booking
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status. Use 'confirmed' or 'cancelled'")
		return
	}

	booking, err := bc.bookings.UpdateStatus(c.Request.Context(), bookingID, input.Status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, booking)
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status. Use 'confirmed' or 'cancelled'")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, "Booking can no longer change status")
	default:
		zap.S().Errorf("update booking %s: %v", bookingID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
	}
}

// GetReceipt renders the booking receipt as PDF
func (bc *BookingController) GetReceipt(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	booking, err := bc.bookings.Get(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
			return
		}
		zap.S().Errorf("get booking %s: %v", bookingID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	var buf bytes.Buffer
	if err := bc.receipts.Render(&buf, booking); err != nil {
		zap.S().Errorf("receipt %s: %v", bookingID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+booking.Reference+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
