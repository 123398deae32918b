package bench_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/on-the-ground/memo_bench/bench"
	"github.com/on-the-ground/memo_bench/clock"
	"github.com/on-the-ground/memo_bench/memo"
	"github.com/on-the-ground/memo_bench/pure"
	"github.com/on-the-ground/memo_bench/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func countingTarget(count *int) *memo.Target[string] {
	return memo.NewTargetFunc(func() string {
		*count++
		return "value"
	})
}

func TestRun_ScriptedClock(t *testing.T) {
	// t0 t1 | t2 t3 | t4 t5
	clk := clock.NewManual(0, 5, 5, 12, 12, 12.5)
	rec := &report.Recorder{}
	count := 0
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clk, rec)

	require.NoError(t, bench.Run(context.Background(), runner, countingTarget(&count)))

	got := rec.Reports()
	require.Len(t, got, 2)

	assert.Equal(t, report.Setup, got[0].Comparison)
	assert.Equal(t, pure.Verdict{Faster: pure.FunctionFaster, FasterBy: 2}, got[0].Verdict)
	assert.Equal(t, pure.Measurement(7), got[0].Candidate)

	assert.Equal(t, report.CachedAccess, got[1].Comparison)
	assert.Equal(t, pure.Verdict{Faster: pure.MemoFaster, FasterBy: 4.5}, got[1].Verdict)
	assert.Equal(t, pure.Measurement(0.5), got[1].Candidate)

	assert.Equal(t, 6, clk.Reads(), "exactly two samples per phase")
}

func TestRun_BaselineIsReused(t *testing.T) {
	clk := clock.NewManual(100, 103, 200, 210, 300, 300)
	rec := &report.Recorder{}
	count := 0
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clk, rec)

	require.NoError(t, bench.Run(context.Background(), runner, countingTarget(&count)))

	got := rec.Reports()
	require.Len(t, got, 2)
	assert.Equal(t, pure.Measurement(3), got[0].Baseline)
	assert.Equal(t, got[0].Baseline, got[1].Baseline)
	assert.Equal(t, pure.Verdict{Faster: pure.MemoFaster, FasterBy: 3}, got[1].Verdict)
}

func TestRun_InvocationCount(t *testing.T) {
	count := 0
	cache := memo.NewCache(memo.NewRotatingStore(4))
	runner := bench.NewRunner(cache, clock.NewMonotonic(), &report.Recorder{})

	require.NoError(t, bench.Run(context.Background(), runner, countingTarget(&count)))

	// once directly, once by the cache miss, never by the cached read
	assert.Equal(t, 2, count)
	assert.Equal(t, memo.Stats{Hits: 0, Misses: 1}, cache.Stats())
}

func TestRun_SeedFromDirect(t *testing.T) {
	count := 0
	cache := memo.NewCache(memo.NewRotatingStore(4))
	runner := bench.NewRunner(cache, clock.NewMonotonic(), &report.Recorder{}, bench.WithSeedFromDirect(true))

	require.NoError(t, bench.Run(context.Background(), runner, countingTarget(&count)))

	assert.Equal(t, 1, count)
	assert.Equal(t, memo.Stats{Hits: 1, Misses: 0}, cache.Stats())
}

func TestRun_DirectFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	rec := &report.Recorder{}
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), rec)

	err := bench.Run(context.Background(), runner, memo.NewTarget(func() (int, error) {
		return 0, boom
	}))

	assert.True(t, err == boom, "error must reach the caller unchanged, got %v", err)
	assert.Empty(t, rec.Reports())
}

func TestRun_CacheMissFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	rec := &report.Recorder{}
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), rec)

	err := bench.Run(context.Background(), runner, memo.NewTarget(func() (int, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return calls, nil
	}))

	assert.True(t, err == boom, "error must reach the caller unchanged, got %v", err)
	assert.Empty(t, rec.Reports())
}

func TestRun_PanicIsNotRecovered(t *testing.T) {
	rec := &report.Recorder{}
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), rec)

	assert.PanicsWithValue(t, "boom", func() {
		_ = bench.Run(context.Background(), runner, memo.NewTargetFunc(func() int {
			panic("boom")
		}))
	})
	assert.Empty(t, rec.Reports())
}

func TestRun_NilInterfaceResult(t *testing.T) {
	count := 0
	rec := &report.Recorder{}
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), rec)

	err := bench.Run(context.Background(), runner, memo.NewTargetFunc(func() any {
		count++
		return nil
	}))

	require.NoError(t, err)
	assert.Len(t, rec.Reports(), 2)
	assert.Equal(t, 2, count)
}

type evictingStore struct {
	*memo.RotatingStore
}

// Get forgets everything it is asked about after answering once.
func (e evictingStore) Get(token string) (any, bool, error) {
	v, ok, err := e.RotatingStore.Get(token)
	_ = e.RotatingStore.Delete(token)
	return v, ok, err
}

func TestRun_EvictedBeforeCachedAccess(t *testing.T) {
	rec := &report.Recorder{}
	cache := memo.NewCache(evictingStore{memo.NewRotatingStore(4)})
	runner := bench.NewRunner(cache, clock.NewMonotonic(), rec, bench.WithSeedFromDirect(true))

	err := bench.Run(context.Background(), runner, memo.NewTargetFunc(func() int { return 1 }))

	assert.ErrorIs(t, err, memo.ErrNotCached)
	assert.Contains(t, err.Error(), string(bench.PhaseSecondMemoized))
	assert.Len(t, rec.Reports(), 1)
}

type failingSink struct{ err error }

func (f failingSink) Emit(context.Context, report.Report) error { return f.err }

func TestRun_SinkFailureStopsRun(t *testing.T) {
	boom := errors.New("sink down")
	count := 0
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), failingSink{err: boom})

	err := bench.Run(context.Background(), runner, countingTarget(&count))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, count)
}

func TestRun_LogsEachPhase(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	runner := bench.NewRunner(
		memo.NewCache(memo.NewRotatingStore(4)),
		clock.NewManual(0, 1, 1, 2, 2, 2),
		&report.Recorder{},
		bench.WithLogger(zap.New(core)),
	)

	require.NoError(t, bench.Run(context.Background(), runner, memo.NewTargetFunc(func() int { return 1 })))

	timed := logs.FilterMessage("phase timed").All()
	require.Len(t, timed, 3)
	for i, phase := range []bench.Phase{bench.PhaseDirect, bench.PhaseFirstMemoized, bench.PhaseSecondMemoized} {
		assert.Equal(t, string(phase), timed[i].ContextMap()["phase"])
		assert.Contains(t, timed[i].ContextMap(), "span")
	}
}

func busyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

func TestRun_EndToEndBusyWait(t *testing.T) {
	rec := &report.Recorder{}
	runner := bench.NewRunner(memo.NewCache(memo.NewRotatingStore(4)), clock.NewMonotonic(), rec)

	target := memo.NewTargetFunc(func() int {
		busyWait(5 * time.Millisecond)
		return 1
	})
	require.NoError(t, bench.Run(context.Background(), runner, target))

	got := rec.Reports()
	require.Len(t, got, 2)

	direct := got[0].Baseline
	assert.GreaterOrEqual(t, float64(direct), 5.0)
	assert.GreaterOrEqual(t, float64(got[0].Candidate), 5.0, "a miss pays for the invocation")
	assert.NotEqual(t, pure.NoDifference, got[0].Verdict.Faster)

	assert.Less(t, float64(got[1].Candidate), 1.0, "a hit does not invoke")
	assert.Equal(t, pure.MemoFaster, got[1].Verdict.Faster)
	assert.InDelta(t, float64(direct), float64(got[1].Verdict.FasterBy), 1.0)
}
