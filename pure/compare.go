package pure

import "fmt"

// Measurement is an elapsed time in milliseconds.
// It is never negative when both samples come from a monotonic clock.
type Measurement float64

// Faster names the side of a comparison that finished first.
type Faster string

const (
	// FunctionFaster means the direct invocation took less time.
	FunctionFaster Faster = "function"

	// MemoFaster means the memoized path took less time.
	MemoFaster Faster = "memo"

	// NoDifference means both sides measured exactly the same.
	NoDifference Faster = "no diff"
)

// Opposite returns the label a swapped comparison would report.
func (f Faster) Opposite() Faster {
	switch f {
	case FunctionFaster:
		return MemoFaster
	case MemoFaster:
		return FunctionFaster
	default:
		return f
	}
}

// Verdict is the outcome of one comparison.
type Verdict struct {
	Faster   Faster
	FasterBy Measurement
}

func (v Verdict) String() string {
	if v.Faster == NoDifference {
		return string(NoDifference)
	}
	return fmt.Sprintf("%s faster by %.3fms", v.Faster, float64(v.FasterBy))
}

// Compare turns a direct elapsed time and a memo elapsed time into a Verdict.
//
// The larger side loses, and FasterBy is the absolute difference.
// Equal inputs yield NoDifference with a zero margin.
func Compare(direct, memo Measurement) Verdict {
	switch {
	case direct > memo:
		return Verdict{Faster: MemoFaster, FasterBy: direct - memo}
	case memo > direct:
		return Verdict{Faster: FunctionFaster, FasterBy: memo - direct}
	default:
		return Verdict{Faster: NoDifference}
	}
}
