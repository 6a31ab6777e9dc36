// utils/dates.go
package utils

import (
	"math"
	"time"
)

const Day = 24 * time.Hour

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// RentalDays is the number of started 24h periods between pickup and return.
// Same-day, sub-day and inverted ranges still count as one day.
func RentalDays(pickup, ret time.Time) int {
	days := int(math.Ceil(float64(ret.Sub(pickup)) / float64(Day)))
	if days < 1 {
		return 1
	}
	return days
}
