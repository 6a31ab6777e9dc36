package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestLimiter() (*Limiter, *MemoryStore, *fakeClock) {
	store := NewMemoryStore()
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(store)
	l.now = clock.now
	return l, store, clock
}

func TestLimiter_RejectsAfterLimit(t *testing.T) {
	l, _, _ := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Check(ctx, "1.2.3.4", 5, time.Minute), "call %d", i+1)
	}
	assert.False(t, l.Check(ctx, "1.2.3.4", 5, time.Minute))
	assert.True(t, l.Check(ctx, "5.6.7.8", 5, time.Minute), "other identifiers keep their own quota")
}

func TestLimiter_WindowReset(t *testing.T) {
	l, _, clock := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Check(ctx, "ip", 2, time.Minute)
	}
	assert.False(t, l.Check(ctx, "ip", 2, time.Minute))

	// exactly at the window boundary the window is still open
	clock.t = clock.t.Add(time.Minute)
	assert.False(t, l.Check(ctx, "ip", 2, time.Minute))

	clock.t = clock.t.Add(time.Millisecond)
	assert.True(t, l.Check(ctx, "ip", 2, time.Minute))
	assert.True(t, l.Check(ctx, "ip", 2, time.Minute))
	assert.False(t, l.Check(ctx, "ip", 2, time.Minute))
}

func TestMemoryStore_Sweep(t *testing.T) {
	l, store, clock := newTestLimiter()
	ctx := context.Background()

	l.Check(ctx, "old", 10, time.Minute)
	clock.t = clock.t.Add(90 * time.Second)
	l.Check(ctx, "recent", 10, time.Minute)

	assert.Equal(t, 0, l.Sweep(), "nothing has been expired for a full window yet")

	clock.t = clock.t.Add(45 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentIncr(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Incr(context.Background(), "burst", time.Minute, now)
		}()
	}
	wg.Wait()

	count, err := store.Incr(context.Background(), "burst", time.Minute, now)
	assert.NoError(t, err)
	assert.Equal(t, 101, count)
}

type brokenStore struct{}

func (brokenStore) Incr(context.Context, string, time.Duration, time.Time) (int, error) {
	return 0, errors.New("connection refused")
}

func (brokenStore) Sweep(time.Time) int { return 0 }

func TestLimiter_FailsOpen(t *testing.T) {
	l := New(brokenStore{})
	assert.True(t, l.Check(context.Background(), "ip", 0, time.Minute))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _, _ := newTestLimiter()

	r := gin.New()
	r.POST("/limited", Middleware(l, "test", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/limited", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1").Code)

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2").Code)
}
