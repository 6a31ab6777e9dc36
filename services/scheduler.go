package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops stale in-memory state, like rate limit counters.
type Sweeper interface {
	Sweep() int
}

// StartScheduler runs the booking expiry sweep on expirySchedule and the
// limiter eviction every minute. The caller stops the returned cron.
func StartScheduler(expiry *ExpiryService, expirySchedule string, limiter Sweeper) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(expirySchedule, func() {
		defer func() {
			if err := recover(); err != nil {
				zap.S().Error(err)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = expiry.Run(ctx)
	}); err != nil {
		return nil, err
	}

	if limiter != nil {
		if _, err := c.AddFunc("@every 1m", func() { limiter.Sweep() }); err != nil {
			return nil, err
		}
	}

	c.Start()
	zap.S().Infof("scheduler started, booking expiry %s", expirySchedule)
	return c, nil
}
