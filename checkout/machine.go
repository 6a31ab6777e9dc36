// Package checkout drives the multi-step booking flow a customer walks
// through: pick a car and dates, enter contact details, pay, done.
package checkout

import (
	"context"
	"strings"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Step int

const (
	SelectCarAndDates Step = iota
	PersonalInfo
	Payment
	Confirmed
)

func (s Step) String() string {
	switch s {
	case SelectCarAndDates:
		return "select-car-and-dates"
	case PersonalInfo:
		return "personal-info"
	case Payment:
		return "payment"
	case Confirmed:
		return "confirmed"
	}
	return "unknown"
}

var ErrWrongStep = errors.New("action not allowed at this step")

// Backend is the server side of checkout.
type Backend interface {
	CreateBooking(ctx context.Context, in utils.BookingInput) (*models.Booking, error)
	CreatePaymentIntent(ctx context.Context, amount float64, bookingID string) (string, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error)
}

// Confirmer delivers the post-payment status update in the background.
type Confirmer interface {
	Enqueue(bookingID string) error
}

type Machine struct {
	backend   Backend
	confirmer Confirmer

	step           Step
	car            *models.Car
	pickupLocation string
	pickupDate     time.Time
	returnDate     time.Time

	name  string
	email string
	phone string

	booking      *models.Booking
	bookingID    string
	clientSecret string
	err          error
}

// New starts a checkout at the first step. A nil confirmer makes the status
// update a direct best-effort call.
func New(backend Backend, confirmer Confirmer) *Machine {
	return &Machine{backend: backend, confirmer: confirmer, step: SelectCarAndDates}
}

func (m *Machine) Step() Step               { return m.step }
func (m *Machine) Booking() *models.Booking { return m.booking }
func (m *Machine) BookingID() string        { return m.bookingID }
func (m *Machine) ClientSecret() string     { return m.clientSecret }
func (m *Machine) Err() error               { return m.err }

func (m *Machine) SelectCar(car models.Car) error {
	if m.step != SelectCarAndDates {
		return ErrWrongStep
	}
	m.car = &car
	return nil
}

func (m *Machine) SetRental(pickupLocation string, pickup, ret time.Time) error {
	if m.step != SelectCarAndDates {
		return ErrWrongStep
	}
	m.pickupLocation = strings.TrimSpace(pickupLocation)
	m.pickupDate = pickup
	m.returnDate = ret
	return nil
}

func (m *Machine) SetPersonalInfo(name, email, phone string) error {
	if m.step != PersonalInfo {
		return ErrWrongStep
	}
	m.name = strings.TrimSpace(name)
	m.email = strings.TrimSpace(email)
	m.phone = strings.TrimSpace(phone)
	return nil
}

// Days is the billed rental length, 0 until both dates are set.
func (m *Machine) Days() int {
	if m.pickupDate.IsZero() || m.returnDate.IsZero() {
		return 0
	}
	return utils.RentalDays(m.pickupDate, m.returnDate)
}

// Total is the price shown to the customer. The server recomputes it.
func (m *Machine) Total() float64 {
	if m.car == nil || m.Days() == 0 {
		return 0
	}
	return services.ComputeTotal(m.pickupDate, m.returnDate, m.car.Price)
}

// Next advances one step if the current step's guard holds. Leaving
// PersonalInfo creates the booking and its payment intent; if either call
// fails the machine stays put and Err reports why.
func (m *Machine) Next(ctx context.Context) error {
	m.err = nil
	switch m.step {
	case SelectCarAndDates:
		if err := m.rentalReady(); err != nil {
			m.err = err
			return err
		}
		m.step = PersonalInfo
		return nil

	case PersonalInfo:
		if verrs := utils.ValidateContact(m.name, m.email, m.phone); len(verrs) > 0 {
			m.err = verrs
			return verrs
		}
		if err := m.startPayment(ctx); err != nil {
			m.err = err
			return err
		}
		m.step = Payment
		return nil
	}
	// Payment only moves on through PaymentSucceeded
	return ErrWrongStep
}

func (m *Machine) rentalReady() error {
	switch {
	case m.car == nil:
		return errors.New("select a car")
	case m.pickupLocation == "":
		return errors.New("pickup location is required")
	case m.pickupDate.IsZero() || m.returnDate.IsZero():
		return errors.New("pickup and return dates are required")
	case m.Total() <= 0:
		return errors.New("total must be positive")
	}
	return nil
}

func (m *Machine) startPayment(ctx context.Context) error {
	booking, err := m.backend.CreateBooking(ctx, utils.BookingInput{
		CarID:          m.car.ID.String(),
		CustomerName:   m.name,
		Email:          m.email,
		Phone:          m.phone,
		PickupDate:     m.pickupDate.UTC().Format(time.RFC3339),
		ReturnDate:     m.returnDate.UTC().Format(time.RFC3339),
		PickupLocation: m.pickupLocation,
	})
	if err != nil {
		return err
	}

	secret, err := m.backend.CreatePaymentIntent(ctx, booking.TotalPrice, booking.ID.String())
	if err != nil {
		return err
	}

	m.booking = booking
	m.bookingID = booking.ID.String()
	m.clientSecret = secret
	return nil
}

// Back returns to the preceding step. Going back from Payment drops the
// unpaid booking; the server expires it.
func (m *Machine) Back() error {
	switch m.step {
	case PersonalInfo:
		m.step = SelectCarAndDates
	case Payment:
		m.booking = nil
		m.bookingID = ""
		m.clientSecret = ""
		m.step = PersonalInfo
	default:
		return ErrWrongStep
	}
	m.err = nil
	return nil
}

// Resume re-enters Payment after the processor redirects back with a client
// secret.
func (m *Machine) Resume(clientSecret, bookingID string) error {
	if clientSecret == "" {
		return errors.New("client secret is required")
	}
	if m.step == Confirmed {
		return ErrWrongStep
	}
	if bookingID != m.bookingID {
		m.booking = nil
	}
	m.clientSecret = clientSecret
	m.bookingID = bookingID
	m.step = Payment
	m.err = nil
	return nil
}

// PaymentSucceeded is the processor's success callback. The customer always
// advances; the status update is handed to the confirmer, which retries.
func (m *Machine) PaymentSucceeded(ctx context.Context) error {
	if m.step != Payment {
		return ErrWrongStep
	}

	if m.bookingID != "" {
		if m.confirmer != nil {
			if err := m.confirmer.Enqueue(m.bookingID); err != nil {
				zap.S().Warnf("queue confirmation for booking %s: %v", m.bookingID, err)
			}
		} else if _, err := m.backend.UpdateBookingStatus(ctx, m.bookingID, models.BookingConfirmed); err != nil {
			zap.S().Warnf("confirm booking %s: %v", m.bookingID, err)
		}
	}

	m.step = Confirmed
	return nil
}
