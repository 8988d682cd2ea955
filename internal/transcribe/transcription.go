package transcribe

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/grid"
	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/ocp"
)

// Construction errors.
var (
	// ErrDegenerateDuration indicates time bounds that admit no
	// positive duration, which would zero the defect step lengths.
	ErrDegenerateDuration = errors.New("transcribe: time bounds admit no positive duration")

	// ErrInfeasibleBounds indicates a propagated bound entry with
	// lower > upper. Checked at construction rather than deferred to
	// the backend.
	ErrInfeasibleBounds = errors.New("transcribe: lower bound exceeds upper bound")

	// ErrShapeMismatch indicates a guess whose blocks do not match
	// the variable store.
	ErrShapeMismatch = errors.New("transcribe: guess shape does not match variable store")
)

// constraintBlock is one appended constraint: bounds plus a
// vector-valued evaluation over the expanded variables. Equality rows
// set lower == upper. Append order is part of the solver contract.
type constraintBlock struct {
	name  string
	lower []float64
	upper []float64
	eval  func(v Vars) []float64
}

type dynamicsEval func(v Vars) (xdot, residuals []float64)

// Transcription is one finished, immutable transcription of a problem
// at a fixed scheme and mesh density. Build it with New; re-mesh by
// building a new instance.
type Transcription struct {
	problem *ocp.Problem
	cfg     config.Config
	scheme  Scheme
	grid    *grid.Grid
	store   *Store

	bounds map[Kind]boundMatrices

	// One dynamics evaluator captured per grid point during assembly.
	evals []dynamicsEval

	constraints []constraintBlock
	numCon      int
	conLower    []float64
	conUpper    []float64

	objective func(v Vars) float64
}

// New runs the single assembly pass: validate, build grid and
// variable store, propagate bounds, capture per-point dynamics
// evaluators, emit defect/kinematic/path/boundary constraints in that
// order, and set the objective. A non-nil error means the instance
// cannot be built; nothing partial is returned.
func New(problem *ocp.Problem, cfg config.Config) (*Transcription, error) {
	if problem == nil {
		return nil, fmt.Errorf("transcribe: nil problem")
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scheme, err := schemeByName(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	if maxDur := problem.FinalTime.Upper - problem.InitialTime.Lower; maxDur <= 0 {
		return nil, fmt.Errorf("%w: max duration %g", ErrDegenerateDuration, maxDur)
	}

	g, err := scheme.BuildGrid(cfg.MeshIntervals)
	if err != nil {
		return nil, err
	}

	n := g.NumPoints()
	shapes := map[Kind]Shape{
		KindInitialTime: {Rows: 1, Cols: 1},
		KindFinalTime:   {Rows: 1, Cols: 1},
		KindStates:      {Rows: problem.NumStates(), Cols: n},
	}
	if problem.NumControls() > 0 {
		shapes[KindControls] = Shape{Rows: problem.NumControls(), Cols: n}
	}
	if problem.NumParameters() > 0 {
		shapes[KindParameters] = Shape{Rows: problem.NumParameters(), Cols: 1}
	}

	t := &Transcription{
		problem: problem,
		cfg:     cfg,
		scheme:  scheme,
		grid:    g,
		store:   newStore(shapes),
		bounds:  make(map[Kind]boundMatrices),
	}

	if err := t.buildBounds(); err != nil {
		return nil, err
	}

	t.evals = make([]dynamicsEval, n)
	for j := 0; j < n; j++ {
		j := j
		t.evals[j] = func(v Vars) ([]float64, []float64) {
			return problem.Dynamics(t.stateAt(v, j), t.controlAt(v, j), t.parameters(v), t.timeAt(v, j))
		}
	}

	t.scheme.ApplyDefects(t)
	t.applyKinematics()
	t.applyPath()
	t.applyBoundary()
	t.sealConstraints()
	t.setObjective()

	return t, nil
}

// Grid returns the active grid. Callers must treat it as read-only.
func (t *Transcription) Grid() *grid.Grid { return t.grid }

// Store returns the variable store.
func (t *Transcription) Store() *Store { return t.store }

// SchemeName returns the active scheme identifier.
func (t *Transcription) SchemeName() string { return t.scheme.Name() }

// NumConstraints returns the total scalar constraint count.
func (t *Transcription) NumConstraints() int { return t.numCon }

func (t *Transcription) buildBounds() error {
	ti := newBoundMatrices(1, 1)
	ti.setScalar(t.problem.InitialTime)
	t.bounds[KindInitialTime] = ti

	tf := newBoundMatrices(1, 1)
	tf.setScalar(t.problem.FinalTime)
	t.bounds[KindFinalTime] = tf

	n := t.grid.NumPoints()
	sb := newBoundMatrices(t.problem.NumStates(), n)
	for r, s := range t.problem.States {
		sb.setChannel(r, s.Bounds, s.Initial, s.Final)
	}
	t.bounds[KindStates] = sb

	if nu := t.problem.NumControls(); nu > 0 {
		cb := newBoundMatrices(nu, n)
		for r, c := range t.problem.Controls {
			cb.setChannel(r, c.Bounds, c.Initial, c.Final)
		}
		t.bounds[KindControls] = cb
	}
	if np := t.problem.NumParameters(); np > 0 {
		pb := newBoundMatrices(np, 1)
		for r, p := range t.problem.Parameters {
			pb.setChannel(r, p.Bounds, nil, nil)
		}
		t.bounds[KindParameters] = pb
	}

	for _, k := range t.store.Kinds() {
		b, ok := t.bounds[k]
		if !ok {
			return fmt.Errorf("transcribe: no bounds for block %s", k)
		}
		if !b.ordered() {
			return fmt.Errorf("%w: block %s", ErrInfeasibleBounds, k)
		}
	}
	return nil
}

// Per-point accessors over an expanded assignment.

func (t *Transcription) timeAt(v Vars, j int) float64 {
	t0 := v[KindInitialTime].At(0, 0)
	tf := v[KindFinalTime].At(0, 0)
	return t0 + t.grid.Points[j]*(tf-t0)
}

func (t *Transcription) stateAt(v Vars, j int) []float64 {
	m := v[KindStates]
	x := make([]float64, t.problem.NumStates())
	for r := range x {
		x[r] = m.At(r, j)
	}
	return x
}

func (t *Transcription) controlAt(v Vars, j int) []float64 {
	if t.problem.NumControls() == 0 {
		return nil
	}
	m := v[KindControls]
	u := make([]float64, t.problem.NumControls())
	for r := range u {
		u[r] = m.At(r, j)
	}
	return u
}

func (t *Transcription) parameters(v Vars) []float64 {
	if t.problem.NumParameters() == 0 {
		return nil
	}
	m := v[KindParameters]
	p := make([]float64, t.problem.NumParameters())
	for r := range p {
		p[r] = m.At(r, 0)
	}
	return p
}

func (t *Transcription) duration(v Vars) float64 {
	return v[KindFinalTime].At(0, 0) - v[KindInitialTime].At(0, 0)
}

// addConstraint appends one constraint block. Emission order is
// append order and must not be revisited.
func (t *Transcription) addConstraint(name string, lower, upper []float64, eval func(v Vars) []float64) {
	t.constraints = append(t.constraints, constraintBlock{
		name:  name,
		lower: lower,
		upper: upper,
		eval:  eval,
	})
	t.numCon += len(lower)
}

// addEquality appends a block constrained to zero.
func (t *Transcription) addEquality(name string, dim int, eval func(v Vars) []float64) {
	t.addConstraint(name, make([]float64, dim), make([]float64, dim), eval)
}

func (t *Transcription) applyKinematics() {
	if t.problem.Residuals == 0 {
		return
	}
	for j := range t.grid.Points {
		if !t.grid.Kinematic[j] {
			continue
		}
		j := j
		t.addEquality(fmt.Sprintf("kinematic[%d]", j), t.problem.Residuals, func(v Vars) []float64 {
			_, res := t.evals[j](v)
			return res
		})
	}
}

func (t *Transcription) applyPath() {
	for _, pc := range t.problem.PathConstraints {
		pc := pc
		for j := range t.grid.Points {
			j := j
			t.addConstraint(fmt.Sprintf("path/%s[%d]", pc.Name, j), pc.Lower, pc.Upper, func(v Vars) []float64 {
				return pc.Eval(t.stateAt(v, j), t.controlAt(v, j), t.parameters(v), t.timeAt(v, j))
			})
		}
	}
}

func (t *Transcription) applyBoundary() {
	b := t.problem.Boundary
	if b == nil {
		return
	}
	last := t.grid.NumPoints() - 1
	t.addConstraint("boundary/"+b.Name, b.Lower, b.Upper, func(v Vars) []float64 {
		return b.Eval(t.stateAt(v, 0), t.stateAt(v, last),
			t.parameters(v), v[KindInitialTime].At(0, 0), v[KindFinalTime].At(0, 0))
	})
}

func (t *Transcription) sealConstraints() {
	t.conLower = make([]float64, 0, t.numCon)
	t.conUpper = make([]float64, 0, t.numCon)
	for _, cb := range t.constraints {
		t.conLower = append(t.conLower, cb.lower...)
		t.conUpper = append(t.conUpper, cb.upper...)
	}
}

func (t *Transcription) setObjective() {
	p := t.problem
	last := t.grid.NumPoints() - 1
	t.objective = func(v Vars) float64 {
		t0 := v[KindInitialTime].At(0, 0)
		tf := v[KindFinalTime].At(0, 0)
		cost := 0.0
		if p.EndpointCost != nil {
			cost += p.EndpointCost(t.stateAt(v, 0), t.stateAt(v, last), t.parameters(v), t0, tf)
		}
		if p.IntegralCost != nil {
			sum := 0.0
			for j, w := range t.grid.Quadrature {
				sum += w * p.IntegralCost(t.stateAt(v, j), t.controlAt(v, j), t.parameters(v), t.timeAt(v, j))
			}
			cost += sum * (tf - t0)
		}
		return cost
	}
}

// InitialGuessFromBounds builds an iterate at the midpoint of every
// finite bound pair (half-bounded entries sit on their finite side,
// free entries at zero).
func (t *Transcription) InitialGuessFromBounds() *Iterate {
	v := t.store.Zeros()
	for _, k := range t.store.Kinds() {
		b := t.bounds[k]
		m := v[k]
		rows, cols := m.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				m.Set(r, c, midpoint(b.lower.At(r, c), b.upper.At(r, c)))
			}
		}
	}
	return t.iterateWithTimes(v)
}

// RandomIterateWithinBounds builds an iterate sampled uniformly
// within every finite bound pair; entries without a finite range fall
// back to the midpoint rule. The same seed reproduces the same
// iterate.
func (t *Transcription) RandomIterateWithinBounds(seed int64) *Iterate {
	rng := rand.New(rand.NewSource(seed))
	v := t.store.Zeros()
	for _, k := range t.store.Kinds() {
		b := t.bounds[k]
		m := v[k]
		rows, cols := m.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				lo := b.lower.At(r, c)
				hi := b.upper.At(r, c)
				if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) {
					m.Set(r, c, lo+rng.Float64()*(hi-lo))
				} else {
					m.Set(r, c, midpoint(lo, hi))
				}
			}
		}
	}
	return t.iterateWithTimes(v)
}

func midpoint(lo, hi float64) float64 {
	loFin := !math.IsInf(lo, 0)
	hiFin := !math.IsInf(hi, 0)
	switch {
	case loFin && hiFin:
		return 0.5 * (lo + hi)
	case loFin:
		return lo
	case hiFin:
		return hi
	}
	return 0
}

func (t *Transcription) iterateWithTimes(v Vars) *Iterate {
	it := &Iterate{Vars: v}
	it.Times = t.grid.Times(it.InitialTime(), it.FinalTime())
	return it
}

func (t *Transcription) checkShapes(v Vars) error {
	for _, k := range t.store.Kinds() {
		sh, _ := t.store.Shape(k)
		m, ok := v[k]
		if !ok {
			return fmt.Errorf("%w: missing block %s", ErrShapeMismatch, k)
		}
		if r, c := m.Dims(); r != sh.Rows || c != sh.Cols {
			return fmt.Errorf("%w: block %s is %dx%d, want %dx%d", ErrShapeMismatch, k, r, c, sh.Rows, sh.Cols)
		}
	}
	return nil
}

// Solve resamples the guess onto the active grid, flattens the
// problem, invokes the configured backend exactly once, and expands
// the result. A nil guess uses InitialGuessFromBounds. Backend
// non-convergence comes back as a Solution with a failure status;
// only a backend that cannot run at all yields an error. No retries.
func (t *Transcription) Solve(guess *Iterate) (*Solution, error) {
	solver, err := nlp.Lookup(t.cfg.Solver)
	if err != nil {
		return nil, err
	}

	if guess == nil {
		guess = t.InitialGuessFromBounds()
	}
	resampled := guess.Resample(t.grid.Times(guess.InitialTime(), guess.FinalTime()))
	if err := t.checkShapes(resampled.Vars); err != nil {
		return nil, err
	}

	lowerVars := make(Vars, len(t.bounds))
	upperVars := make(Vars, len(t.bounds))
	for k, b := range t.bounds {
		lowerVars[k] = b.lower
		upperVars[k] = b.upper
	}

	problem := nlp.Problem{
		Dim:            t.store.NumScalars(),
		NumConstraints: t.numCon,
		Objective: func(x []float64) float64 {
			v, err := t.store.Expand(x)
			if err != nil {
				return math.NaN()
			}
			return t.objective(v)
		},
		Constraints: func(x []float64) []float64 {
			v, err := t.store.Expand(x)
			if err != nil {
				return nil
			}
			out := make([]float64, 0, t.numCon)
			for _, cb := range t.constraints {
				out = append(out, cb.eval(v)...)
			}
			return out
		},
		LowerX: t.store.Flatten(lowerVars),
		UpperX: t.store.Flatten(upperVars),
		LowerG: append([]float64(nil), t.conLower...),
		UpperG: append([]float64(nil), t.conUpper...),
	}

	opts := nlp.Options{
		MaxIterations:       t.cfg.MaxIterations,
		Tolerance:           t.cfg.Tolerance,
		ConstraintTolerance: t.cfg.ConstraintTolerance,
		Extra:               t.cfg.SolverOptions,
	}

	result, err := solver(problem, t.store.Flatten(resampled.Vars), opts)
	if err != nil {
		return nil, fmt.Errorf("transcribe: solver %q: %w", t.cfg.Solver, err)
	}

	vars, err := t.store.Expand(result.X)
	if err != nil {
		return nil, fmt.Errorf("transcribe: solver %q returned malformed vector: %w", t.cfg.Solver, err)
	}

	sol := &Solution{
		Iterate: Iterate{Vars: vars},
		Stats:   result.Stats,
	}
	sol.Times = t.grid.Times(sol.InitialTime(), sol.FinalTime())
	return sol, nil
}
