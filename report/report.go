// Package report delivers benchmark verdicts to output sinks.
package report

import (
	"context"
	"errors"
	"sync"

	"github.com/on-the-ground/memo_bench/pure"
)

// Comparison identifies which pair of phases a Report compares.
type Comparison string

const (
	// Setup compares the direct call with the first call through the cache.
	Setup Comparison = "setup"

	// CachedAccess compares the direct call with reading the cached result.
	CachedAccess Comparison = "cached_access"
)

const (
	LabelSetup        = "Function versus memoisation process"
	LabelCachedAccess = "Function call versus calling memoised function"
)

// Label is the human-readable heading the report is emitted under.
func (c Comparison) Label() string {
	switch c {
	case Setup:
		return LabelSetup
	case CachedAccess:
		return LabelCachedAccess
	default:
		return string(c)
	}
}

// Report is one emitted verdict together with the two measurements it was
// derived from.
type Report struct {
	Comparison Comparison
	Verdict    pure.Verdict
	Baseline   pure.Measurement
	Candidate  pure.Measurement
}

// Sink receives reports.
type Sink interface {
	Emit(ctx context.Context, r Report) error
}

// ErrClosed is returned by sinks that no longer accept reports.
var ErrClosed = errors.New("report: sink closed")

var _ Sink = (*Recorder)(nil)

// Recorder keeps every report in memory, in emission order.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) Emit(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

// Reports returns a copy of what has been recorded so far.
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}
