package services

import (
	"context"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier is told about bookings that reached confirmed.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking models.Booking)
}

type NoopNotifier struct{}

func (NoopNotifier) BookingConfirmed(context.Context, models.Booking) {}

// BookingService persists bookings and their status lifecycle. It never talks
// to the payment processor; checkout orchestrates that.
type BookingService struct {
	db       *gorm.DB
	ids      *snowflake.Node
	notifier Notifier
	now      func() time.Time
}

func NewBookingService(db *gorm.DB, ids *snowflake.Node, notifier Notifier) *BookingService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &BookingService{db: db, ids: ids, notifier: notifier, now: time.Now}
}

// Create prices and stores a pending booking for an existing car. The total is
// always derived from the stored daily rate.
func (s *BookingService) Create(ctx context.Context, in *utils.ValidatedBooking) (*models.Booking, error) {
	carID, err := uuid.Parse(in.CarID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "car %s", in.CarID)
	}

	var car models.Car
	if err := s.db.WithContext(ctx).First(&car, "id = ?", carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "car %s", in.CarID)
		}
		return nil, errors.Wrap(err, "load car")
	}

	booking := models.Booking{
		Reference:      "BK-" + s.ids.Generate().Base36(),
		CarID:          car.ID,
		CustomerName:   in.CustomerName,
		Email:          in.Email,
		Phone:          in.Phone,
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupLocation: in.PickupLocation,
		TotalPrice:     ComputeTotal(in.PickupDate, in.ReturnDate, car.Price),
		Status:         models.BookingPending,
	}

	if err := s.db.WithContext(ctx).Omit("Car").Create(&booking).Error; err != nil {
		return nil, errors.Wrap(err, "create booking")
	}
	booking.Car = car

	zap.L().Info("booking created",
		zap.String("id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("car", car.Model),
		zap.Float64("total", booking.TotalPrice))
	return &booking, nil
}

// List returns every booking with its car, newest first.
func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := s.db.WithContext(ctx).Preload("Car").Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).Preload("Car").First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "booking %s", id)
		}
		return nil, errors.Wrap(err, "get booking")
	}
	return &booking, nil
}

// UpdateStatus confirms or cancels a pending booking. Asking for the status
// the booking already has is a no-op.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if status != models.BookingConfirmed && status != models.BookingCancelled {
		return nil, errors.Wrapf(ErrInvalidInput, "status %q", status)
	}
	return s.transition(ctx, id, status)
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, target models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Car").First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "booking %s", id)
			}
			return errors.Wrap(err, "load booking")
		}

		if booking.Status == target {
			return nil
		}
		if !booking.Status.CanTransitionTo(target) {
			return errors.Wrapf(ErrInvalidTransition, "%s -> %s", booking.Status, target)
		}

		// the status guard keeps a concurrent transition from being overwritten
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", id, booking.Status).
			Update("status", target)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update booking status")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrInvalidTransition, "booking %s changed concurrently", id)
		}

		booking.Status = target
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		zap.L().Info("booking status changed",
			zap.String("id", booking.ID.String()),
			zap.String("status", string(target)))
		if target == models.BookingConfirmed {
			go s.notifier.BookingConfirmed(context.Background(), booking)
		}
	}
	return &booking, nil
}

// AttachPaymentIntent records the processor's intent id on a booking.
func (s *BookingService) AttachPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("payment_intent_id", intentID)
	if res.Error != nil {
		return errors.Wrap(res.Error, "attach payment intent")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "booking %s", id)
	}
	return nil
}

// ExpireStale moves pending bookings created more than olderThan ago to
// expired and returns how many were changed. Bookings holding a payment
// intent are left for the payment webhook to settle.
func (s *BookingService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND created_at < ?", models.BookingPending, cutoff).
		Where("(payment_intent_id = '' OR payment_intent_id IS NULL)").
		Update("status", models.BookingExpired)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "expire stale bookings")
	}
	return res.RowsAffected, nil
}
