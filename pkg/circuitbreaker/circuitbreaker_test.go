package circuitbreaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(Settings{
		Name:        "test",
		MaxFailures: maxFailures,
		Timeout:     timeout,
	})
}

func TestExecutePassesThroughWhileClosed(t *testing.T) {
	cb := newTestBreaker(3, time.Minute)

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(3, time.Minute)
	boom := fmt.Errorf("boom")

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open")
	assert.Zero(t, calls, "an open breaker must not invoke the function")
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(3, time.Minute)
	boom := fmt.Errorf("boom")

	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })
	require.NoError(t, cb.Execute(func() error { return nil }))

	// Two more failures should not trip a freshly reset breaker.
	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHalfOpenClosesOnTrialSuccess(t *testing.T) {
	cb := newTestBreaker(1, 10*time.Millisecond)

	require.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	require.Error(t, cb.Execute(func() error { return nil }), "breaker should be open immediately after tripping")

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
}
