package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	v, err := Do(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransient(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	v, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewTransientError(errors.New("busy"), http.StatusServiceUnavailable)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	permanent := errors.New("not found")
	_, err := Do(context.Background(), fastPolicy(5), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := Do(context.Background(), fastPolicy(2), func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("still busy"), http.StatusTooManyRequests)
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, IsTransient(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 5, InitialBackoff: time.Hour}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(errors.New("busy"), http.StatusBadGateway)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoff_Capped(t *testing.T) {
	t.Parallel()

	p := Policy{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second}
	assert.Equal(t, time.Second, p.backoff(0))
	assert.Equal(t, 2*time.Second, p.backoff(1))
	assert.Equal(t, 3*time.Second, p.backoff(5))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 404, 501} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	wrapped := errors.Join(errors.New("fetch"), NewTransientError(errors.New("busy"), 503))
	assert.True(t, IsTransient(wrapped))
}
