// Package clock supplies the millisecond timestamps the benchmark subtracts
// to get elapsed durations.
//
// Implementations:
//   - Monotonic: backed by the runtime's monotonic clock reading
//   - Manual: scripted readings for deterministic tests
package clock

import (
	"sync"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// Clock returns milliseconds elapsed since an arbitrary fixed epoch.
// Successive readings never decrease.
type Clock interface {
	Now() float64
}

// Anchored is a Clock whose epoch maps to a wall-clock instant.
type Anchored interface {
	Clock
	Epoch() time.Time
}

// TimeSpan is the wall-clock interval covered by one phase.
type TimeSpan = timespan.TimeSpan

var (
	_ Anchored = (*Monotonic)(nil)
	_ Anchored = (*Manual)(nil)
)

// Monotonic reads time.Since against its construction instant, so wall-clock
// adjustments never leak into readings.
type Monotonic struct {
	epoch time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{epoch: time.Now()}
}

func (m *Monotonic) Now() float64 {
	return toMillis(time.Since(m.epoch))
}

func (m *Monotonic) Epoch() time.Time {
	return m.epoch
}

// Manual replays a fixed script of readings, then holds the last one.
// Advance moves the held reading forward.
type Manual struct {
	mu      sync.Mutex
	epoch   time.Time
	samples []float64
	next    int
	now     float64
}

func NewManual(samples ...float64) *Manual {
	return &Manual{
		epoch:   time.Unix(0, 0).UTC(),
		samples: samples,
	}
}

func (m *Manual) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next < len(m.samples) {
		m.now = m.samples[m.next]
		m.next++
	}
	return m.now
}

func (m *Manual) Advance(ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += ms
}

// Reads reports how many readings have been taken from the script.
func (m *Manual) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}

func (m *Manual) Epoch() time.Time {
	return m.epoch
}

// Elapsed samples c around fn and returns the difference, along with fn's error.
func Elapsed(c Clock, fn func() error) (float64, error) {
	before := c.Now()
	err := fn()
	after := c.Now()
	return after - before, err
}

// Span converts two readings of an anchored clock into a wall-clock interval.
func Span(c Anchored, from, to float64) TimeSpan {
	return timespan.BetweenTimes(c.Epoch().Add(fromMillis(from)), c.Epoch().Add(fromMillis(to)))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func fromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
