package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu            sync.Mutex
	bookingErr    error
	intentErr     error
	statusErrs    []error // consumed one per UpdateBookingStatus call
	bookings      []utils.BookingInput
	intentAmounts []float64
	statusCalls   []string
	rate          float64
}

func (f *fakeBackend) CreateBooking(_ context.Context, in utils.BookingInput) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, in)
	if f.bookingErr != nil {
		return nil, f.bookingErr
	}
	pickup, _ := utils.ParseDate(in.PickupDate)
	ret, _ := utils.ParseDate(in.ReturnDate)
	return &models.Booking{
		ID:         uuid.New(),
		Status:     models.BookingPending,
		PickupDate: pickup,
		ReturnDate: ret,
		TotalPrice: services.ComputeTotal(pickup, ret, f.rate),
	}, nil
}

func (f *fakeBackend) CreatePaymentIntent(_ context.Context, amount float64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intentAmounts = append(f.intentAmounts, amount)
	if f.intentErr != nil {
		return "", f.intentErr
	}
	return "pi_1_secret", nil
}

func (f *fakeBackend) UpdateBookingStatus(_ context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, id)
	if len(f.statusErrs) > 0 {
		err := f.statusErrs[0]
		f.statusErrs = f.statusErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &models.Booking{ID: uuid.MustParse(id), Status: status}, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.statusCalls)
}

var (
	tesla  = models.Car{ID: uuid.New(), Model: "Tesla Model 3", Price: 120}
	pickup = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ret    = time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
)

func toPersonalInfo(t *testing.T, m *Machine) {
	require.NoError(t, m.SelectCar(tesla))
	require.NoError(t, m.SetRental("LAX Airport", pickup, ret))
	require.NoError(t, m.Next(context.Background()))
	require.Equal(t, PersonalInfo, m.Step())
}

func TestMachine_HappyPath(t *testing.T) {
	backend := &fakeBackend{rate: 120}
	m := New(backend, nil)
	assert.Equal(t, SelectCarAndDates, m.Step())

	toPersonalInfo(t, m)
	assert.Equal(t, 3, m.Days())
	assert.Equal(t, 360.0, m.Total())

	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))
	require.NoError(t, m.Next(context.Background()))
	assert.Equal(t, Payment, m.Step())
	assert.Equal(t, "pi_1_secret", m.ClientSecret())
	require.NotNil(t, m.Booking())
	assert.Equal(t, []float64{360}, backend.intentAmounts)

	require.NoError(t, m.PaymentSucceeded(context.Background()))
	assert.Equal(t, Confirmed, m.Step())
	assert.Equal(t, []string{m.BookingID()}, backend.statusCalls)
}

func TestMachine_FirstStepGuards(t *testing.T) {
	ctx := context.Background()

	m := New(&fakeBackend{}, nil)
	assert.Error(t, m.Next(ctx), "no car")
	assert.Equal(t, SelectCarAndDates, m.Step())

	require.NoError(t, m.SelectCar(tesla))
	require.NoError(t, m.SetRental("  ", pickup, ret))
	assert.Error(t, m.Next(ctx), "no location")

	require.NoError(t, m.SetRental("LAX", time.Time{}, ret))
	assert.Error(t, m.Next(ctx), "no pickup date")
	assert.Equal(t, 0, m.Days())

	require.NoError(t, m.SelectCar(models.Car{ID: uuid.New(), Price: 0}))
	require.NoError(t, m.SetRental("LAX", pickup, ret))
	assert.Error(t, m.Next(ctx), "zero total")
	assert.Equal(t, SelectCarAndDates, m.Step())
	assert.NotNil(t, m.Err())
}

func TestMachine_ContactGuard(t *testing.T) {
	backend := &fakeBackend{rate: 120}
	m := New(backend, nil)
	toPersonalInfo(t, m)

	require.NoError(t, m.SetPersonalInfo("J", "not-an-email", "123"))
	err := m.Next(context.Background())
	require.Error(t, err)

	var verrs utils.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.Equal(t, PersonalInfo, m.Step())
	assert.Empty(t, backend.bookings, "no booking before contact details are valid")
}

func TestMachine_BackendFailureStaysInPersonalInfo(t *testing.T) {
	for name, backend := range map[string]*fakeBackend{
		"booking": {rate: 120, bookingErr: &APIError{Status: 404, Message: "Car not found"}},
		"intent":  {rate: 120, intentErr: &APIError{Status: 429, Message: "Too many requests. Please try again later."}},
	} {
		m := New(backend, nil)
		toPersonalInfo(t, m)
		require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))

		err := m.Next(context.Background())
		require.Error(t, err, name)
		assert.Equal(t, PersonalInfo, m.Step(), name)
		assert.Equal(t, err.Error(), m.Err().Error(), name)
		assert.Empty(t, m.ClientSecret(), name)
		assert.Len(t, backend.bookings, 1, "%s: no automatic retry", name)
	}
}

func TestMachine_Back(t *testing.T) {
	m := New(&fakeBackend{rate: 120}, nil)
	assert.ErrorIs(t, m.Back(), ErrWrongStep)

	toPersonalInfo(t, m)
	require.NoError(t, m.Back())
	assert.Equal(t, SelectCarAndDates, m.Step())

	require.NoError(t, m.Next(context.Background()))
	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))
	require.NoError(t, m.Next(context.Background()))
	require.Equal(t, Payment, m.Step())

	require.NoError(t, m.Back())
	assert.Equal(t, PersonalInfo, m.Step())
	assert.Empty(t, m.ClientSecret())

	assert.ErrorIs(t, m.PaymentSucceeded(context.Background()), ErrWrongStep, "no skipping to confirmed")
}

func TestMachine_NoSkippingAhead(t *testing.T) {
	m := New(&fakeBackend{rate: 120}, nil)
	assert.ErrorIs(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"), ErrWrongStep)
	assert.ErrorIs(t, m.PaymentSucceeded(context.Background()), ErrWrongStep)

	toPersonalInfo(t, m)
	assert.ErrorIs(t, m.SelectCar(tesla), ErrWrongStep)
}

func TestMachine_Resume(t *testing.T) {
	backend := &fakeBackend{}
	m := New(backend, nil)
	bookingID := uuid.NewString()

	assert.Error(t, m.Resume("", bookingID))
	require.NoError(t, m.Resume("pi_9_secret", bookingID))
	assert.Equal(t, Payment, m.Step())
	assert.Equal(t, "pi_9_secret", m.ClientSecret())

	require.NoError(t, m.PaymentSucceeded(context.Background()))
	assert.Equal(t, Confirmed, m.Step())
	assert.Equal(t, []string{bookingID}, backend.statusCalls)
	assert.ErrorIs(t, m.Resume("pi_9_secret", bookingID), ErrWrongStep)
}

func TestMachine_ResumeOtherBookingDropsStaleBooking(t *testing.T) {
	backend := &fakeBackend{rate: 120}
	m := New(backend, nil)
	toPersonalInfo(t, m)
	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))
	require.NoError(t, m.Next(context.Background()))
	require.NotNil(t, m.Booking())
	current := m.BookingID()

	require.NoError(t, m.Resume("pi_1_secret", current))
	require.NotNil(t, m.Booking(), "same booking is kept")
	assert.Equal(t, current, m.Booking().ID.String())

	other := uuid.NewString()
	require.NoError(t, m.Resume("pi_2_secret", other))
	assert.Equal(t, other, m.BookingID())
	assert.Nil(t, m.Booking())
}

func TestMachine_ConfirmFailureStillAdvances(t *testing.T) {
	backend := &fakeBackend{statusErrs: []error{errors.New("network down")}}
	m := New(backend, nil)
	require.NoError(t, m.Resume("pi_secret", uuid.NewString()))

	require.NoError(t, m.PaymentSucceeded(context.Background()))
	assert.Equal(t, Confirmed, m.Step())
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "payment", Payment.String())
	assert.Equal(t, "unknown", Step(42).String())
}
