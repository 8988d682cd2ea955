package nlp

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Default backend registration.
func init() {
	Register("auglag", AugLag)
}

// Tuning defaults for the augmented-Lagrangian backend. Override via
// Options.Extra: penalty_initial, penalty_growth, fd_step,
// inner_iterations.
const (
	defaultPenaltyInitial  = 10.0
	defaultPenaltyGrowth   = 10.0
	defaultFDStep          = 1e-7
	defaultInnerIterations = 100.0
	defaultMaxIterations   = 3000
	defaultTolerance       = 1e-8
	defaultConstraintTol   = 1e-8
)

// AugLag is the reference NLP backend: an augmented-Lagrangian outer
// loop around a projected-gradient inner loop with backtracking line
// search. Gradients come from central differences, so it suits the
// small-to-moderate problems a transcription at modest mesh density
// produces. Non-convergence within the iteration budget is reported
// as StatusMaxIterations, not as an error.
func AugLag(p Problem, x0 []float64, opts Options) (Result, error) {
	if p.Objective == nil {
		return Result{}, fmt.Errorf("nlp: problem has nil objective")
	}
	if len(x0) != p.Dim {
		return Result{}, fmt.Errorf("nlp: guess length %d, want %d", len(x0), p.Dim)
	}
	if p.NumConstraints > 0 && p.Constraints == nil {
		return Result{}, fmt.Errorf("nlp: %d constraints declared but eval is nil", p.NumConstraints)
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}
	ctol := opts.ConstraintTolerance
	if ctol <= 0 {
		ctol = defaultConstraintTol
	}
	mu := extra(opts, "penalty_initial", defaultPenaltyInitial)
	growth := extra(opts, "penalty_growth", defaultPenaltyGrowth)
	fdStep := extra(opts, "fd_step", defaultFDStep)
	innerBudget := int(extra(opts, "inner_iterations", defaultInnerIterations))

	start := time.Now()

	x := make([]float64, p.Dim)
	copy(x, x0)
	project(x, p.LowerX, p.UpperX)

	lambda := make([]float64, p.NumConstraints)
	viol := make([]float64, p.NumConstraints)

	// Signed distance of each constraint value outside its band;
	// zero when satisfied.
	violations := func(x []float64, out []float64) {
		if p.NumConstraints == 0 {
			return
		}
		g := p.Constraints(x)
		for i, gi := range g {
			switch {
			case gi < p.LowerG[i]:
				out[i] = gi - p.LowerG[i]
			case gi > p.UpperG[i]:
				out[i] = gi - p.UpperG[i]
			default:
				out[i] = 0
			}
		}
	}

	merit := func(x []float64) float64 {
		m := p.Objective(x)
		if p.NumConstraints > 0 {
			v := make([]float64, p.NumConstraints)
			violations(x, v)
			for i, vi := range v {
				m += lambda[i]*vi + 0.5*mu*vi*vi
			}
		}
		return m
	}

	if f0 := p.Objective(x); math.IsNaN(f0) || math.IsInf(f0, 0) {
		return Result{X: x, Stats: Stats{
			Status:    StatusFailed,
			Objective: f0,
			Elapsed:   time.Since(start),
		}}, nil
	}

	grad := make([]float64, p.Dim)
	step := make([]float64, p.Dim)
	trial := make([]float64, p.Dim)

	iterations := 0
	status := StatusMaxIterations
	gradNorm := math.Inf(1)

outer:
	for iterations < maxIter {
		// Inner loop: projected gradient descent on the merit.
		meritBefore := merit(x)
		for inner := 0; inner < innerBudget && iterations < maxIter; inner++ {
			iterations++
			fdGradient(merit, x, fdStep, grad, trial)

			// Projected gradient: zero out components pushing against
			// an active box bound.
			for i := range grad {
				if (x[i] <= p.LowerX[i] && grad[i] > 0) ||
					(x[i] >= p.UpperX[i] && grad[i] < 0) {
					step[i] = 0
				} else {
					step[i] = grad[i]
				}
			}
			gradNorm = floats.Norm(step, 2)
			if gradNorm <= tol {
				break
			}

			if !lineSearch(merit, x, step, trial, p.LowerX, p.UpperX) {
				// No descent found at machine step size.
				break
			}
		}

		violations(x, viol)
		maxViol := 0.0
		for _, v := range viol {
			if a := math.Abs(v); a > maxViol {
				maxViol = a
			}
		}

		// Converged when feasible and the inner loop either drove the
		// projected gradient down or can no longer improve the merit.
		meritAfter := merit(x)
		stalled := math.Abs(meritBefore-meritAfter) <= tol*(1+math.Abs(meritAfter))
		if maxViol <= ctol && (gradNorm <= math.Sqrt(tol) || stalled) {
			status = StatusConverged
			break outer
		}
		if iterations >= maxIter {
			break outer
		}

		// First-order multiplier update, then tighten the penalty.
		for i := range lambda {
			lambda[i] += mu * viol[i]
		}
		mu *= growth
	}

	obj := p.Objective(x)
	violations(x, viol)
	maxViol := 0.0
	for _, v := range viol {
		if a := math.Abs(v); a > maxViol {
			maxViol = a
		}
	}
	if math.IsNaN(obj) || math.IsInf(obj, 0) {
		status = StatusFailed
	}

	return Result{
		X: x,
		Stats: Stats{
			Status:              status,
			Iterations:          iterations,
			Objective:           obj,
			ConstraintViolation: maxViol,
			Elapsed:             time.Since(start),
		},
	}, nil
}

func extra(opts Options, key string, fallback float64) float64 {
	if v, ok := opts.Extra[key]; ok && v > 0 {
		return v
	}
	return fallback
}

func project(x, lo, hi []float64) {
	for i := range x {
		if x[i] < lo[i] {
			x[i] = lo[i]
		}
		if x[i] > hi[i] {
			x[i] = hi[i]
		}
	}
}

// fdGradient writes the central-difference gradient of f at x into
// grad, using scratch as the perturbed point.
func fdGradient(f func([]float64) float64, x []float64, h float64, grad, scratch []float64) {
	copy(scratch, x)
	for i := range x {
		hi := h * math.Max(1, math.Abs(x[i]))
		scratch[i] = x[i] + hi
		fp := f(scratch)
		scratch[i] = x[i] - hi
		fm := f(scratch)
		scratch[i] = x[i]
		grad[i] = (fp - fm) / (2 * hi)
	}
}

// lineSearch walks x along -dir with backtracking until an Armijo
// decrease holds, projecting each trial onto the box. Reports whether
// x moved.
func lineSearch(f func([]float64) float64, x, dir, trial, lo, hi []float64) bool {
	const (
		armijo    = 1e-4
		shrink    = 0.5
		minAlpha  = 1e-14
		initAlpha = 1.0
	)
	f0 := f(x)
	d2 := floats.Dot(dir, dir)
	for alpha := initAlpha; alpha >= minAlpha; alpha *= shrink {
		for i := range x {
			trial[i] = x[i] - alpha*dir[i]
		}
		project(trial, lo, hi)
		if f(trial) <= f0-armijo*alpha*d2 {
			copy(x, trial)
			return true
		}
	}
	return false
}
