package transcribe

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/grid"
)

// hermiteSimpson is third-order separated Hermite-Simpson
// collocation: each mesh interval carries a midpoint collocation
// point, a Hermite interpolation defect pinning the midpoint state,
// and a Simpson quadrature defect for the interval's state change.
type hermiteSimpson struct{}

func (hermiteSimpson) Name() string { return "hermite-simpson" }

func (hermiteSimpson) BuildGrid(intervals int) (*grid.Grid, error) {
	return grid.HermiteSimpson(intervals)
}

// ApplyDefects emits, for each mesh interval with left point L = 2k,
// midpoint M = 2k+1, right point R = 2k+2 and step h:
//
//	hermite: x[M] - (x[L] + x[R])/2 - h/8 * (f(L) - f(R)) = 0
//	simpson: x[R] - x[L] - h/6 * (f(L) + 4 f(M) + f(R))   = 0
func (hermiteSimpson) ApplyDefects(t *Transcription) {
	ns := t.problem.NumStates()
	for k := 0; k < t.grid.Intervals; k++ {
		k := k
		l, m, r := 2*k, 2*k+1, 2*k+2
		frac := t.grid.Points[r] - t.grid.Points[l]

		t.addEquality(fmt.Sprintf("hermite[%d]", k), ns, func(v Vars) []float64 {
			h := frac * t.duration(v)
			xl := t.stateAt(v, l)
			xm := t.stateAt(v, m)
			xr := t.stateAt(v, r)
			fl, _ := t.evals[l](v)
			fr, _ := t.evals[r](v)

			out := make([]float64, ns)
			for s := 0; s < ns; s++ {
				out[s] = xm[s] - (xl[s]+xr[s])/2 - h/8*(fl[s]-fr[s])
			}
			return out
		})

		t.addEquality(fmt.Sprintf("simpson[%d]", k), ns, func(v Vars) []float64 {
			h := frac * t.duration(v)
			xl := t.stateAt(v, l)
			xr := t.stateAt(v, r)
			fl, _ := t.evals[l](v)
			fm, _ := t.evals[m](v)
			fr, _ := t.evals[r](v)

			out := make([]float64, ns)
			for s := 0; s < ns; s++ {
				out[s] = xr[s] - xl[s] - h/6*(fl[s]+4*fm[s]+fr[s])
			}
			return out
		})
	}
}
