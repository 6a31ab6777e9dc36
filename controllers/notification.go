// controllers/notification.go
package controllers

import (
	"net/http"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationController exposes the log of confirmation messages
type NotificationController struct {
	db *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// GetNotificationLogs lists sent and failed confirmation messages, newest
// first, optionally filtered by status or booking.
func (nc *NotificationController) GetNotificationLogs(c *gin.Context) {
	query := nc.db.WithContext(c.Request.Context()).Order("created_at DESC").Limit(200)

	if status := c.Query("status"); status != "" {
		if status != "sent" && status != "failed" {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status. Use 'sent' or 'failed'")
			return
		}
		query = query.Where("status = ?", status)
	}
	if bookingID := c.Query("bookingId"); bookingID != "" {
		id, err := uuid.Parse(bookingID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID")
			return
		}
		query = query.Where("booking_id = ?", id)
	}

	logs := make([]models.NotificationLog, 0)
	if err := query.Find(&logs).Error; err != nil {
		zap.S().Errorf("list notification logs: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	c.JSON(http.StatusOK, logs)
}
