package checkout

import (
	"context"
	"testing"
	"time"

	"rentalcar-backend/services"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	id  string
	err error
}

func newTestQueue(t *testing.T, backend Backend, attempts int) (*ConfirmQueue, chan result) {
	results := make(chan result, 8)
	q, err := NewConfirmQueue(backend, QueueOptions{
		Workers:   2,
		Attempts:  attempts,
		BaseDelay: time.Millisecond,
		MaxDelay:  4 * time.Millisecond,
		OnResult:  func(id string, err error) { results <- result{id, err} },
	})
	require.NoError(t, err)
	t.Cleanup(q.Release)
	return q, results
}

func TestConfirmQueue_RetriesUntilSuccess(t *testing.T) {
	backend := &fakeBackend{statusErrs: []error{
		errors.New("connection reset"),
		&APIError{Status: 503, Message: "unavailable"},
		nil,
	}}
	q, results := newTestQueue(t, backend, 5)

	id := uuid.NewString()
	require.NoError(t, q.Enqueue(id))
	q.Wait()

	r := <-results
	assert.Equal(t, id, r.id)
	assert.NoError(t, r.err)
	assert.Equal(t, 3, backend.calls())
}

func TestConfirmQueue_GivesUp(t *testing.T) {
	backend := &fakeBackend{statusErrs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	q, results := newTestQueue(t, backend, 3)

	require.NoError(t, q.Enqueue(uuid.NewString()))
	q.Wait()

	assert.Error(t, (<-results).err)
	assert.Equal(t, 3, backend.calls())
}

func TestConfirmQueue_StopsOnPermanentError(t *testing.T) {
	backend := &fakeBackend{statusErrs: []error{&APIError{Status: 409, Message: "Booking can no longer change status"}}}
	q, results := newTestQueue(t, backend, 5)

	require.NoError(t, q.Enqueue(uuid.NewString()))
	q.Wait()

	err := (<-results).err
	assert.True(t, errors.Is(err, services.ErrInvalidTransition))
	assert.Equal(t, 1, backend.calls())
}

func TestConfirmQueue_WithMachine(t *testing.T) {
	backend := &fakeBackend{rate: 120, statusErrs: []error{errors.New("timeout")}}
	q, results := newTestQueue(t, backend, 3)

	m := New(backend, q)
	toPersonalInfo(t, m)
	require.NoError(t, m.SetPersonalInfo("Jane Doe", "jane@example.com", "+15550100"))
	require.NoError(t, m.Next(context.Background()))
	require.NoError(t, m.PaymentSucceeded(context.Background()))
	assert.Equal(t, Confirmed, m.Step(), "advances before the update lands")

	q.Wait()
	r := <-results
	assert.NoError(t, r.err)
	assert.Equal(t, m.BookingID(), r.id)
	assert.Equal(t, 2, backend.calls())
}

func TestAPIError(t *testing.T) {
	assert.True(t, (&APIError{Status: 429}).Temporary())
	assert.True(t, (&APIError{Status: 502}).Temporary())
	assert.False(t, (&APIError{Status: 400}).Temporary())
	assert.True(t, errors.Is(&APIError{Status: 404}, services.ErrNotFound))
	assert.True(t, errors.Is(&APIError{Status: 401}, services.ErrUnauthorized))
	assert.Equal(t, "request failed with status 500", (&APIError{Status: 500}).Error())
}
