// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportController handles booking analytics
type ReportController struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db, now: time.Now}
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64          `json:"currentMonthRevenue"`
	MonthGrowth           float64          `json:"monthGrowth"`
	CurrentQuarterRevenue float64          `json:"currentQuarterRevenue"`
	QuarterGrowth         float64          `json:"quarterGrowth"`
	CurrentYearRevenue    float64          `json:"currentYearRevenue"`
	YearGrowth            float64          `json:"yearGrowth"`
	TopCars               []CarSummary     `json:"topCars"`
	StatusCounts          map[string]int64 `json:"statusCounts"`
	QuickStats            QuickStatistics  `json:"quickStats"`
}

type CarSummary struct {
	Model   string  `json:"model"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type QuickStatistics struct {
	TotalBookings   int     `json:"totalBookings"`
	TotalCustomers  int     `json:"totalCustomers"`
	AvgBookingValue float64 `json:"avgBookingValue"`
	AvgRentalDays   float64 `json:"avgRentalDays"`
}

// GetReportAnalytics returns revenue from confirmed bookings per period with
// growth against the previous one
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	db := rc.db.WithContext(c.Request.Context())

	now := rc.now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	firstOfYear := time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation)
	quarterStart := rc.getQuarterStart(now)

	periods := []struct {
		start, end time.Time
		dst        *float64
	}{
		{firstOfMonth, firstOfMonth.AddDate(0, 1, 0), new(float64)},
		{firstOfMonth.AddDate(0, -1, 0), firstOfMonth, new(float64)},
		{quarterStart, quarterStart.AddDate(0, 3, 0), new(float64)},
		{quarterStart.AddDate(0, -3, 0), quarterStart, new(float64)},
		{firstOfYear, firstOfYear.AddDate(1, 0, 0), new(float64)},
		{firstOfYear.AddDate(-1, 0, 0), firstOfYear, new(float64)},
	}
	for _, p := range periods {
		revenue, err := rc.getRevenue(db, p.start, p.end)
		if err != nil {
			zap.S().Errorf("report revenue: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get revenue")
			return
		}
		*p.dst = revenue
	}

	topCars, err := rc.getTopCars(db, firstOfMonth, firstOfMonth.AddDate(0, 1, 0), 4)
	if err != nil {
		zap.S().Errorf("report top cars: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top cars")
		return
	}

	statusCounts, err := rc.getStatusCounts(db)
	if err != nil {
		zap.S().Errorf("report status counts: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get status counts")
		return
	}

	quickStats, err := rc.getQuickStatistics(db)
	if err != nil {
		zap.S().Errorf("report quick stats: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   *periods[0].dst,
		MonthGrowth:           rc.calculateGrowthPercentage(*periods[0].dst, *periods[1].dst),
		CurrentQuarterRevenue: *periods[2].dst,
		QuarterGrowth:         rc.calculateGrowthPercentage(*periods[2].dst, *periods[3].dst),
		CurrentYearRevenue:    *periods[4].dst,
		YearGrowth:            rc.calculateGrowthPercentage(*periods[4].dst, *periods[5].dst),
		TopCars:               topCars,
		StatusCounts:          statusCounts,
		QuickStats:            quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

// getRevenue sums confirmed bookings created in [start, end).
func (rc *ReportController) getRevenue(db *gorm.DB, start, end time.Time) (float64, error) {
	var total float64
	err := db.Model(&models.Booking{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.BookingConfirmed, start, end).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopCars(db *gorm.DB, start, end time.Time, limit int) ([]CarSummary, error) {
	cars := make([]CarSummary, 0)

	err := db.Table("bookings").
		Select("cars.model as model, COUNT(bookings.id) as count, COALESCE(SUM(bookings.total_price), 0) as revenue").
		Joins("JOIN cars ON cars.id = bookings.car_id").
		Where("bookings.status = ? AND bookings.created_at >= ? AND bookings.created_at < ?", models.BookingConfirmed, start, end).
		Group("cars.model").
		Order("revenue DESC").
		Limit(limit).
		Scan(&cars).Error

	return cars, err
}

func (rc *ReportController) getStatusCounts(db *gorm.DB) (map[string]int64, error) {
	counts := map[string]int64{
		string(models.BookingPending):   0,
		string(models.BookingConfirmed): 0,
		string(models.BookingCancelled): 0,
		string(models.BookingExpired):   0,
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (rc *ReportController) getQuickStatistics(db *gorm.DB) (QuickStatistics, error) {
	var stats QuickStatistics

	var confirmed []models.Booking
	if err := db.Select("email", "total_price", "pickup_date", "return_date").
		Where("status = ?", models.BookingConfirmed).
		Find(&confirmed).Error; err != nil {
		return stats, err
	}

	customers := make(map[string]struct{})
	var revenue float64
	var days int
	for _, b := range confirmed {
		customers[b.Email] = struct{}{}
		revenue += b.TotalPrice
		days += utils.RentalDays(b.PickupDate, b.ReturnDate)
	}

	stats.TotalBookings = len(confirmed)
	stats.TotalCustomers = len(customers)
	if stats.TotalBookings > 0 {
		stats.AvgBookingValue = revenue / float64(stats.TotalBookings)
		stats.AvgRentalDays = float64(days) / float64(stats.TotalBookings)
	}

	return stats, nil
}
