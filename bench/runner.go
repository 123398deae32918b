// Package bench times a function called directly against the same function
// called through a memoizing cache, and reports which path was faster.
//
// A run has three phases, executed strictly in sequence on the caller's
// goroutine:
//
//   - direct: the target is invoked without the cache
//   - first memoized: the cache is asked for the target's result (a miss
//     invokes the target)
//   - second memoized: the cached result is read back without invoking the
//     target
//
// The direct measurement is the baseline of both emitted comparisons.
package bench

import (
	"context"
	"fmt"

	"github.com/on-the-ground/memo_bench/clock"
	"github.com/on-the-ground/memo_bench/memo"
	"github.com/on-the-ground/memo_bench/pure"
	"github.com/on-the-ground/memo_bench/report"
	"go.uber.org/zap"
)

// Phase names one timed segment of a run.
type Phase string

const (
	PhaseDirect         Phase = "direct"
	PhaseFirstMemoized  Phase = "first_memoized"
	PhaseSecondMemoized Phase = "second_memoized"
)

type Runner struct {
	cache          *memo.Cache
	clock          clock.Clock
	sink           report.Sink
	logger         *zap.Logger
	seedFromDirect bool
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSeedFromDirect stores the direct phase's result in the cache before the
// first memoized phase, so the cache never invokes the target itself.
// Off by default: the cache then invokes the target a second time.
func WithSeedFromDirect(seed bool) Option {
	return func(r *Runner) {
		r.seedFromDirect = seed
	}
}

func NewRunner(cache *memo.Cache, clk clock.Clock, sink report.Sink, opts ...Option) *Runner {
	r := &Runner{
		cache:  cache,
		clock:  clk,
		sink:   sink,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run benchmarks target once and emits a Setup and a CachedAccess report.
//
// An error returned by target is passed back unchanged, and nothing is
// emitted after it. A panic in target is not recovered.
func Run[T any](ctx context.Context, r *Runner, target *memo.Target[T]) error {
	t0 := r.clock.Now()
	result, err := target.Call()
	t1 := r.clock.Now()
	if err != nil {
		return err
	}
	direct := r.measure(PhaseDirect, t0, t1)

	if r.seedFromDirect {
		if err := memo.Seed(r.cache, target, result); err != nil {
			return err
		}
	}

	t2 := r.clock.Now()
	_, err = memo.Fetch(r.cache, target)
	t3 := r.clock.Now()
	if err != nil {
		return err
	}
	firstMemo := r.measure(PhaseFirstMemoized, t2, t3)
	if err := r.emit(ctx, report.Setup, direct, firstMemo); err != nil {
		return err
	}

	t4 := r.clock.Now()
	_, err = memo.Lookup(r.cache, target)
	t5 := r.clock.Now()
	if err != nil {
		return fmt.Errorf("bench: %s phase: %w", PhaseSecondMemoized, err)
	}
	secondMemo := r.measure(PhaseSecondMemoized, t4, t5)
	return r.emit(ctx, report.CachedAccess, direct, secondMemo)
}

func (r *Runner) measure(phase Phase, before, after float64) pure.Measurement {
	elapsed := pure.Measurement(after - before)
	fields := []zap.Field{
		zap.String("phase", string(phase)),
		zap.Float64("elapsed_ms", float64(elapsed)),
	}
	if anchored, ok := r.clock.(clock.Anchored); ok {
		fields = append(fields, zap.Stringer("span", clock.Span(anchored, before, after)))
	}
	r.logger.Debug("phase timed", fields...)
	return elapsed
}

func (r *Runner) emit(ctx context.Context, c report.Comparison, baseline, candidate pure.Measurement) error {
	rep := report.Report{
		Comparison: c,
		Verdict:    pure.Compare(baseline, candidate),
		Baseline:   baseline,
		Candidate:  candidate,
	}
	if err := r.sink.Emit(ctx, rep); err != nil {
		return fmt.Errorf("bench: emit %s: %w", c, err)
	}
	return nil
}
