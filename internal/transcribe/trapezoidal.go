package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/grid"
)

// trapezoidal is first-order collocation on mesh points only: the
// state change across an interval must equal the trapezoid rule
// applied to the dynamics at its two endpoints.
type trapezoidal struct{}

func (trapezoidal) Name() string { return "trapezoidal" }

func (trapezoidal) BuildGrid(intervals int) (*grid.Grid, error) {
	return grid.Trapezoidal(intervals)
}

// ApplyDefects emits, for each interval [j, j+1]:
//
//	x[j+1] - x[j] - h/2 * (f(j) + f(j+1)) = 0
//
// with h the interval's share of the (variable) duration.
func (trapezoidal) ApplyDefects(t *Transcription) {
	ns := t.problem.NumStates()
	for j := 0; j < t.grid.NumPoints()-1; j++ {
		j := j
		frac := t.grid.Points[j+1] - t.grid.Points[j]
		t.addEquality(fmt.Sprintf("defect[%d]", j), ns, func(v Vars) []float64 {
			h := frac * t.duration(v)
			xl := t.stateAt(v, j)
			xr := t.stateAt(v, j+1)
			fl, _ := t.evals[j](v)
			fr, _ := t.evals[j+1](v)

			out := make([]float64, ns)
			for s := 0; s < ns; s++ {
				out[s] = xr[s] - xl[s] - h/2*(fl[s]+fr[s])
			}
			return out
		})
	}
}
