package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCacheDown = errors.New("connection refused")

func failing(ctx context.Context) error { return errCacheDown }
func succeeding(ctx context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3), WithTimeout(time.Hour))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, failing), errCacheDown)
	}
	require.Equal(t, StateOpen, cb.State())

	// Open circuit rejects without calling the function.
	called := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := New("test", WithFailureThreshold(2))
	ctx := context.Background()

	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.ErrorIs(t, cb.Execute(ctx, failing), errCacheDown)
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.ErrorIs(t, cb.Execute(ctx, failing), errCacheDown)

	// Successes between failures keep the consecutive count below threshold.
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(time.Nanosecond),
	)
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, failing), errCacheDown)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(time.Millisecond)

	// First probe after the timeout is allowed; success closes the circuit.
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Hour))
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, failing), errCacheDown)

	err := cb.ExecuteWithFallback(ctx, failing, func(err error) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Hour))
	assert.Error(t, cb.Execute(context.Background(), failing))
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeeding))
}

func TestCacheBreaker(t *testing.T) {
	var from, to State
	cb := CacheBreaker(func(name string, f, to2 State) {
		from, to = f, to2
	})
	assert.Equal(t, "redis-cache", cb.Name())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(ctx, failing))
	}
	assert.Equal(t, StateClosed, from)
	assert.Equal(t, StateOpen, to)
}
