// Package nlp defines the boundary to nonlinear-programming backends.
//
// A backend is a single pure function of a flattened [Problem]: it
// receives the decision vector layout, bound vectors, and an initial
// guess, and returns a [Result]. Non-convergence is reported through
// [Stats.Status], not as an error; errors are reserved for backends
// that cannot run at all. Backends register themselves by name and
// are looked up by the solve orchestrator.
package nlp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownSolver indicates a Lookup for a name nothing registered.
var ErrUnknownSolver = errors.New("nlp: unknown solver")

// Problem is a flattened nonlinear program:
//
//	min  Objective(x)
//	s.t. LowerG <= Constraints(x) <= UpperG
//	     LowerX <= x <= UpperX
//
// Equality constraints set LowerG[i] == UpperG[i]. Objective and
// Constraints must be pure functions of x.
type Problem struct {
	Dim            int
	NumConstraints int

	Objective   func(x []float64) float64
	Constraints func(x []float64) []float64

	LowerX []float64
	UpperX []float64
	LowerG []float64
	UpperG []float64
}

// Options configures a backend invocation. Extra is an opaque bag of
// backend-specific settings owned by whoever assembled it; backends
// read the keys they know and ignore the rest.
type Options struct {
	MaxIterations       int
	Tolerance           float64
	ConstraintTolerance float64
	Extra               map[string]float64
}

// Status classifies a backend outcome.
type Status string

const (
	StatusConverged     Status = "converged"
	StatusMaxIterations Status = "max_iterations"
	StatusFailed        Status = "failed"
)

// Stats carries a backend's raw convergence report.
type Stats struct {
	Status              Status
	Iterations          int
	Objective           float64
	ConstraintViolation float64
	Elapsed             time.Duration
}

// Success reports whether the backend converged.
func (s Stats) Success() bool { return s.Status == StatusConverged }

// Result is a backend's output: the solved decision vector plus the
// statistics that describe how it got there.
type Result struct {
	X     []float64
	Stats Stats
}

// Solver is the backend invocation boundary: one synchronous,
// reentrant call per solve. Implementations must not retain p or x0.
type Solver func(p Problem, x0 []float64, opts Options) (Result, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Solver{}
)

// Register makes a backend available under name, replacing any
// previous registration.
func Register(name string, s Solver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = s
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Solver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
	return s, nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
