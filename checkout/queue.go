package checkout

import (
	"context"
	"sync"
	"time"

	"rentalcar-backend/models"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type QueueOptions struct {
	Workers   int
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Timeout   time.Duration // per attempt
	// OnResult, if set, is called once per job with the final error.
	OnResult func(bookingID string, err error)
}

func DefaultQueueOptions() QueueOptions {
	return QueueOptions{
		Workers:   4,
		Attempts:  5,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  30 * time.Second,
		Timeout:   10 * time.Second,
	}
}

// ConfirmQueue marks paid bookings confirmed in the background, retrying
// with exponential backoff. The server treats repeat confirmations as no-ops,
// so a retry after an ambiguous failure is safe.
type ConfirmQueue struct {
	backend Backend
	pool    *ants.Pool
	opts    QueueOptions
	wg      sync.WaitGroup
}

func NewConfirmQueue(backend Backend, opts QueueOptions) (*ConfirmQueue, error) {
	def := DefaultQueueOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = def.BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}

	pool, err := ants.NewPool(opts.Workers, ants.WithPanicHandler(func(p interface{}) {
		zap.S().Errorf("confirm worker panic: %v", p)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "confirm pool")
	}
	return &ConfirmQueue{backend: backend, pool: pool, opts: opts}, nil
}

func (q *ConfirmQueue) Enqueue(bookingID string) error {
	q.wg.Add(1)
	err := q.pool.Submit(func() {
		defer q.wg.Done()
		err := q.confirm(bookingID)
		if q.opts.OnResult != nil {
			q.opts.OnResult(bookingID, err)
		}
	})
	if err != nil {
		q.wg.Done()
		return errors.Wrap(err, "submit confirmation")
	}
	return nil
}

func (q *ConfirmQueue) confirm(bookingID string) error {
	delay := q.opts.BaseDelay
	var err error
	for attempt := 1; attempt <= q.opts.Attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.opts.Timeout)
		_, err = q.backend.UpdateBookingStatus(ctx, bookingID, models.BookingConfirmed)
		cancel()
		if err == nil {
			zap.S().Infof("booking %s confirmed after %d attempt(s)", bookingID, attempt)
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			zap.S().Errorf("booking %s confirmation rejected: %v", bookingID, err)
			return err
		}
		if attempt == q.opts.Attempts {
			break
		}

		zap.S().Warnf("booking %s confirmation attempt %d failed, retrying in %s: %v", bookingID, attempt, delay, err)
		time.Sleep(delay)
		delay *= 2
		if delay > q.opts.MaxDelay {
			delay = q.opts.MaxDelay
		}
	}
	zap.S().Errorf("booking %s confirmation gave up after %d attempts: %v", bookingID, q.opts.Attempts, err)
	return err
}

// Wait blocks until every queued confirmation finished.
func (q *ConfirmQueue) Wait() {
	q.wg.Wait()
}

func (q *ConfirmQueue) Release() {
	q.wg.Wait()
	q.pool.Release()
}
