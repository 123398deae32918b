package pure_test

import (
	"testing"

	"github.com/on-the-ground/memo_bench/pure"
	"github.com/stretchr/testify/assert"
)

func TestCompare_NoDifference(t *testing.T) {
	v := pure.Compare(5.0, 5.0)
	assert.Equal(t, pure.NoDifference, v.Faster)
	assert.Equal(t, pure.Measurement(0), v.FasterBy)
}

func TestCompare_Magnitude(t *testing.T) {
	v := pure.Compare(10.0, 3.4)
	assert.Equal(t, pure.MemoFaster, v.Faster)
	assert.InDelta(t, 6.6, float64(v.FasterBy), 1e-9)

	v = pure.Compare(3.4, 10.0)
	assert.Equal(t, pure.FunctionFaster, v.Faster)
	assert.InDelta(t, 6.6, float64(v.FasterBy), 1e-9)
}

func TestCompare_Symmetry(t *testing.T) {
	samples := []pure.Measurement{0, 0.001, 1, 3.4, 5, 10, 250.75}
	for _, a := range samples {
		for _, b := range samples {
			ab := pure.Compare(a, b)
			ba := pure.Compare(b, a)

			assert.Equal(t, ab.FasterBy, ba.FasterBy, "a=%v b=%v", a, b)
			assert.Equal(t, ab.Faster.Opposite(), ba.Faster, "a=%v b=%v", a, b)
			assert.GreaterOrEqual(t, float64(ab.FasterBy), 0.0)
			if a == b {
				assert.Equal(t, pure.NoDifference, ab.Faster)
			} else {
				assert.NotEqual(t, pure.NoDifference, ab.Faster)
			}
		}
	}
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "memo faster by 6.600ms", pure.Compare(10.0, 3.4).String())
	assert.Equal(t, "no diff", pure.Compare(1, 1).String())
}
