package services

import (
	"time"

	"rentalcar-backend/utils"
)

// ComputeTotal prices a rental at dailyRate per started day, charging at
// least one day.
func ComputeTotal(pickup, ret time.Time, dailyRate float64) float64 {
	return float64(utils.RentalDays(pickup, ret)) * dailyRate
}
