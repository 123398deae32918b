package clock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/on-the-ground/memo_bench/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonic_NonDecreasing(t *testing.T) {
	c := clock.NewMonotonic()
	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		require.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestMonotonic_MeasuresSleep(t *testing.T) {
	c := clock.NewMonotonic()
	elapsed, err := clock.Elapsed(c, func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 5.0)
}

func TestManual_ReplaysThenHolds(t *testing.T) {
	c := clock.NewManual(1, 4, 9)

	assert.Equal(t, 1.0, c.Now())
	assert.Equal(t, 4.0, c.Now())
	assert.Equal(t, 9.0, c.Now())
	assert.Equal(t, 9.0, c.Now())
	assert.Equal(t, 3, c.Reads())

	c.Advance(2.5)
	assert.Equal(t, 11.5, c.Now())
}

func TestElapsed_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	c := clock.NewManual(10, 12)

	elapsed, err := clock.Elapsed(c, func() error { return boom })
	assert.Same(t, boom, err)
	assert.Equal(t, 2.0, elapsed)
}

func TestSpan_AnchoredAtEpoch(t *testing.T) {
	c := clock.NewManual()
	span := clock.Span(c, 5, 15)

	assert.WithinDuration(t, c.Epoch().Add(5*time.Millisecond), span.Start(), 0)
	assert.Equal(t, 10*time.Millisecond, span.Duration())
}
