package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiryService releases checkouts that were abandoned before payment.
type ExpiryService struct {
	bookings *BookingService
	ttl      time.Duration
}

func NewExpiryService(bookings *BookingService, ttl time.Duration) *ExpiryService {
	return &ExpiryService{bookings: bookings, ttl: ttl}
}

func (s *ExpiryService) Run(ctx context.Context) (int64, error) {
	n, err := s.bookings.ExpireStale(ctx, s.ttl)
	if err != nil {
		zap.S().Errorf("expire pending bookings: %v", err)
		return 0, err
	}
	if n > 0 {
		zap.S().Infof("expired %d pending bookings older than %s", n, s.ttl)
	}
	return n, nil
}
