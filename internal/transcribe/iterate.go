package transcribe

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/nlp"
)

// Iterate is a full assignment of every variable block plus the
// derived time vector. It serves both as an initial guess and as the
// payload of a converged Solution.
type Iterate struct {
	Vars  Vars
	Times []float64
}

// InitialTime returns the assigned initial-time value.
func (it *Iterate) InitialTime() float64 {
	return it.Vars[KindInitialTime].At(0, 0)
}

// FinalTime returns the assigned final-time value.
func (it *Iterate) FinalTime() float64 {
	return it.Vars[KindFinalTime].At(0, 0)
}

// Resample interpolates the iterate onto a new time vector: each
// grid-shaped block's rows are linearly interpolated against the
// iterate's own times, scalar blocks (time endpoints, parameters)
// copy through. Times outside the iterate's span clamp to the nearest
// endpoint.
func (it *Iterate) Resample(times []float64) *Iterate {
	out := &Iterate{
		Vars:  make(Vars, len(it.Vars)),
		Times: append([]float64(nil), times...),
	}
	for k, m := range it.Vars {
		rows, cols := m.Dims()
		if cols != len(it.Times) {
			// Scalar or grid-independent block.
			out.Vars[k] = mat.DenseCopyOf(m)
			continue
		}
		res := mat.NewDense(rows, len(times), nil)
		for r := 0; r < rows; r++ {
			row := mat.Row(nil, r, m)
			for c, tc := range times {
				res.Set(r, c, interp(it.Times, row, tc))
			}
		}
		out.Vars[k] = res
	}
	return out
}

// interp evaluates piecewise-linear interpolation of (xs, ys) at x,
// clamping outside [xs[0], xs[len-1]]. Repeated abscissae (as in a
// zero-duration iterate) take the left value.
func interp(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= xs[i] {
			dx := xs[i] - xs[i-1]
			if dx == 0 {
				return ys[i-1]
			}
			w := (x - xs[i-1]) / dx
			return ys[i-1] + w*(ys[i]-ys[i-1])
		}
	}
	return ys[n-1]
}

// Solution is an immutable solved trajectory: the iterate the backend
// produced plus its raw convergence statistics. Non-convergence is
// visible through Stats, not through an error.
type Solution struct {
	Iterate
	Stats nlp.Stats
}
