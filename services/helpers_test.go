package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.Tables...))
	return db
}

func createCar(t *testing.T, db *gorm.DB, model string, price float64) models.Car {
	car := models.Car{Model: model, Type: "Electric", Price: price, Transmission: "Automatic", Fuel: "Electric", Seats: 5, Rating: 4.7}
	require.NoError(t, db.Create(&car).Error)
	return car
}

func newIDs(t *testing.T) *snowflake.Node {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func validBooking(carID string) *utils.ValidatedBooking {
	return &utils.ValidatedBooking{
		CarID:          carID,
		CustomerName:   "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+15550100",
		PickupDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		PickupLocation: "LAX Airport",
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []models.Booking
	done     chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 10)}
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b models.Booking) {
	n.mu.Lock()
	n.bookings = append(n.bookings, b)
	n.mu.Unlock()
	n.done <- struct{}{}
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.bookings)
}
