package controllers

import (
	"fmt"
	"net/http"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardOverview struct {
	TotalBookings   int64            `json:"totalBookings"`
	PendingBookings int64            `json:"pendingBookings"`
	MonthlyRevenue  float64          `json:"monthlyRevenue"`
	RecentBookings  []RecentBooking  `json:"recentBookings"`
	UpcomingPickups []UpcomingPickup `json:"upcomingPickups"`
}

type RecentBooking struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Car       string `json:"car"`
	Status    string `json:"status"`
	BookedAt  string `json:"bookedAt"` // e.g. "Today", "Yesterday"
}

type UpcomingPickup struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Car       string `json:"car"`
	Location  string `json:"location"`
	Date      string `json:"date"` // e.g. "Tomorrow", "3 days"
}

// GetDashboardOverview summarizes today's workload for the rental desk
func (rc *ReportController) GetDashboardOverview(c *gin.Context) {
	db := rc.db.WithContext(c.Request.Context())
	now := rc.now()
	today := utils.BeginningOfDay(now)

	var overview DashboardOverview

	if err := db.Model(&models.Booking{}).Count(&overview.TotalBookings).Error; err != nil {
		zap.S().Errorf("dashboard count: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	if err := db.Model(&models.Booking{}).
		Where("status = ?", models.BookingPending).
		Count(&overview.PendingBookings).Error; err != nil {
		zap.S().Errorf("dashboard pending: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	firstOfMonth := utils.BeginningOfMonth(now)
	revenue, err := rc.getRevenue(db, firstOfMonth, firstOfMonth.AddDate(0, 1, 0))
	if err != nil {
		zap.S().Errorf("dashboard revenue: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	overview.MonthlyRevenue = revenue

	// Recent bookings (last 3)
	var recent []models.Booking
	if err := db.Preload("Car").Order("created_at DESC").Limit(3).Find(&recent).Error; err != nil {
		zap.S().Errorf("dashboard recent: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	overview.RecentBookings = make([]RecentBooking, 0, len(recent))
	for _, b := range recent {
		daysAgo := int(today.Sub(utils.BeginningOfDay(b.CreatedAt)) / utils.Day)
		var bookedAt string
		switch {
		case daysAgo <= 0:
			bookedAt = "Today"
		case daysAgo == 1:
			bookedAt = "Yesterday"
		default:
			bookedAt = fmt.Sprintf("%d days ago", daysAgo)
		}
		overview.RecentBookings = append(overview.RecentBookings, RecentBooking{
			Reference: b.Reference,
			Name:      b.CustomerName,
			Car:       b.Car.Model,
			Status:    string(b.Status),
			BookedAt:  bookedAt,
		})
	}

	// Confirmed pickups in the next 7 days
	var pickups []models.Booking
	if err := db.Preload("Car").
		Where("status = ? AND pickup_date >= ? AND pickup_date < ?", models.BookingConfirmed, today, today.AddDate(0, 0, 7)).
		Order("pickup_date ASC").
		Limit(7).
		Find(&pickups).Error; err != nil {
		zap.S().Errorf("dashboard pickups: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	overview.UpcomingPickups = make([]UpcomingPickup, 0, len(pickups))
	for _, b := range pickups {
		daysUntil := int(utils.BeginningOfDay(b.PickupDate).Sub(today) / utils.Day)
		var label string
		switch daysUntil {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		default:
			label = fmt.Sprintf("%d days", daysUntil)
		}
		overview.UpcomingPickups = append(overview.UpcomingPickups, UpcomingPickup{
			Reference: b.Reference,
			Name:      b.CustomerName,
			Car:       b.Car.Model,
			Location:  b.PickupLocation,
			Date:      label,
		})
	}

	c.JSON(http.StatusOK, overview)
}
