package checkout

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"rentalcar-backend/config"
	"rentalcar-backend/models"
	"rentalcar-backend/ratelimit"
	"rentalcar-backend/routes"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGateway struct {
	mu      sync.Mutex
	amounts []float64
}

func (g *stubGateway) CreateIntent(_ context.Context, amount float64, bookingID string) (*services.PaymentIntent, error) {
	if err := services.ValidateChargeAmount(amount); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.amounts = append(g.amounts, amount)
	return &services.PaymentIntent{
		ID:           "pi_e2e",
		ClientSecret: fmt.Sprintf("pi_e2e_secret_%s", bookingID),
		Amount:       services.ToMinorUnits(amount),
		Currency:     "usd",
	}, nil
}

func startServer(t *testing.T) (*httptest.Server, *gorm.DB, *stubGateway, models.Car) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	car := models.Car{Model: "Tesla Model 3", Type: "Electric", Price: 120, Transmission: "Automatic", Fuel: "Electric", Seats: 5}
	require.NoError(t, db.Create(&car).Error)

	ids, err := snowflake.NewNode(2)
	require.NoError(t, err)
	gateway := &stubGateway{}
	cfg := config.Default()
	router := routes.SetupRouter(
		routes.NewHandlers(cfg, db, ids, gateway, nil),
		routes.NewOptions(cfg, ratelimit.New(ratelimit.NewMemoryStore())),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, db, gateway, car
}

func TestCheckoutAgainstAPI(t *testing.T) {
	srv, db, gateway, car := startServer(t)
	ctx := context.Background()

	queue, err := NewConfirmQueue(NewHTTPBackend(srv.URL), QueueOptions{Workers: 1, Attempts: 3})
	require.NoError(t, err)
	defer queue.Release()

	m := New(NewHTTPBackend(srv.URL), queue)
	require.NoError(t, m.SelectCar(car))
	require.NoError(t, m.SetRental("LAX Airport", pickup, ret))
	require.NoError(t, m.Next(ctx))
	assert.Equal(t, 360.0, m.Total())

	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))
	require.NoError(t, m.Next(ctx), "%v", m.Err())
	require.Equal(t, Payment, m.Step())
	assert.Equal(t, 360.0, m.Booking().TotalPrice)
	assert.Equal(t, "Tesla Model 3", m.Booking().Car.Model)
	assert.Equal(t, []float64{360}, gateway.amounts)
	assert.Equal(t, "pi_e2e_secret_"+m.BookingID(), m.ClientSecret())

	require.NoError(t, m.PaymentSucceeded(ctx))
	assert.Equal(t, Confirmed, m.Step())
	queue.Wait()

	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", m.BookingID()).Error)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
	assert.Equal(t, 360.0, stored.TotalPrice)
	assert.Equal(t, "pi_e2e", stored.PaymentIntentID)
}

func TestCheckoutAgainstAPI_UnknownCar(t *testing.T) {
	srv, db, _, _ := startServer(t)

	m := New(NewHTTPBackend(srv.URL), nil)
	require.NoError(t, m.SelectCar(models.Car{ID: uuid.New(), Price: 99}))
	require.NoError(t, m.SetRental("LAX Airport", pickup, ret))
	require.NoError(t, m.Next(context.Background()))
	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))

	err := m.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, PersonalInfo, m.Step())
	assert.Equal(t, "Car not found", m.Err().Error())
	assert.True(t, errors.Is(err, services.ErrNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHTTPBackend_ValidationDetails(t *testing.T) {
	srv, _, _, car := startServer(t)

	_, err := NewHTTPBackend(srv.URL).CreateBooking(context.Background(), bookingInputFor(car.ID.String()))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	require.NotEmpty(t, apiErr.Details)
	assert.Equal(t, "returnDate", apiErr.Details[0].Field)
}

func bookingInputFor(carID string) utils.BookingInput {
	return utils.BookingInput{
		CarID:          carID,
		CustomerName:   "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+15550100",
		PickupDate:     "2024-06-04",
		ReturnDate:     "2024-06-01",
		PickupLocation: "LAX Airport",
	}
}

func TestHTTPBackend_GetCar(t *testing.T) {
	srv, _, _, car := startServer(t)
	backend := NewHTTPBackend(srv.URL)

	got, err := backend.GetCar(context.Background(), car.ID.String())
	require.NoError(t, err)
	assert.Equal(t, car.ID, got.ID)
	assert.Equal(t, car.Price, got.Price)

	m := New(backend, nil)
	require.NoError(t, m.SelectCar(*got))
	require.NoError(t, m.SetRental("LAX Airport", pickup, ret))
	require.NoError(t, m.Next(context.Background()))
	assert.Equal(t, 3*car.Price, m.Total())

	_, err = backend.GetCar(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
