package transcribe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func linearIterate(times []float64) *Iterate {
	// One state channel with x(t) = 2t, one scalar pair of time vars.
	n := len(times)
	states := mat.NewDense(1, n, nil)
	for c, tv := range times {
		states.Set(0, c, 2*tv)
	}
	return &Iterate{
		Vars: Vars{
			KindInitialTime: mat.NewDense(1, 1, []float64{times[0]}),
			KindFinalTime:   mat.NewDense(1, 1, []float64{times[n-1]}),
			KindStates:      states,
		},
		Times: append([]float64(nil), times...),
	}
}

func TestResampleLinearExact(t *testing.T) {
	it := linearIterate([]float64{0, 0.5, 1})
	res := it.Resample([]float64{0, 0.25, 0.5, 0.75, 1})

	want := []float64{0, 0.5, 1, 1.5, 2}
	for c, w := range want {
		assert.InDelta(t, w, res.Vars[KindStates].At(0, c), 1e-12, "col %d", c)
	}
	// Scalars copy through untouched.
	assert.Equal(t, 0.0, res.InitialTime())
	assert.Equal(t, 1.0, res.FinalTime())
}

func TestResampleRoundTripAtSharedPoints(t *testing.T) {
	coarse := []float64{0, 0.25, 0.5, 0.75, 1}
	fine := []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875, 1}

	it := linearIterate(coarse)
	// Perturb so the data is not globally linear.
	it.Vars[KindStates].Set(0, 2, 3.0)

	back := it.Resample(fine).Resample(coarse)
	for c := range coarse {
		assert.InDelta(t, it.Vars[KindStates].At(0, c), back.Vars[KindStates].At(0, c), 1e-12,
			"shared point %d", c)
	}
}

func TestResampleClampsOutsideSpan(t *testing.T) {
	it := linearIterate([]float64{0, 1})
	res := it.Resample([]float64{-1, 0.5, 2})
	assert.Equal(t, 0.0, res.Vars[KindStates].At(0, 0))
	assert.InDelta(t, 1.0, res.Vars[KindStates].At(0, 1), 1e-12)
	assert.Equal(t, 2.0, res.Vars[KindStates].At(0, 2))
}

func TestResampleZeroDuration(t *testing.T) {
	// All abscissae identical: interpolation must not divide by zero.
	it := linearIterate([]float64{1, 1, 1})
	it.Vars[KindStates].Set(0, 0, 7)
	it.Vars[KindStates].Set(0, 1, 8)
	it.Vars[KindStates].Set(0, 2, 9)

	res := it.Resample([]float64{1, 1, 1})
	for c := 0; c < 3; c++ {
		v := res.Vars[KindStates].At(0, c)
		assert.False(t, math.IsNaN(v), "col %d is NaN", c)
	}
}

func TestInterp(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 10, 0}
	assert.Equal(t, 0.0, interp(xs, ys, -5))
	assert.Equal(t, 0.0, interp(xs, ys, 5))
	assert.InDelta(t, 5.0, interp(xs, ys, 0.5), 1e-12)
	assert.InDelta(t, 10.0, interp(xs, ys, 1), 1e-12)
	assert.InDelta(t, 5.0, interp(xs, ys, 1.5), 1e-12)
}
