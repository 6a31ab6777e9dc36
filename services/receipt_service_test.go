package services

import (
	"bytes"
	"testing"
	"time"

	"rentalcar-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptService_RendersPDF(t *testing.T) {
	b := &models.Booking{
		Reference:      "BK-1",
		CustomerName:   "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+15550100",
		PickupDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		PickupLocation: "LAX Airport",
		TotalPrice:     360,
		Status:         models.BookingConfirmed,
		Car:            models.Car{Model: "Tesla Model 3", Price: 120},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReceiptService("LuxeDrive", "https://luxedrive.example", "usd").Render(&buf, b))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}
