package ocp

import (
	"errors"
	"fmt"
)

// Domain errors for problem definitions.
var (
	// ErrNoDynamics indicates a problem without a dynamics callback.
	ErrNoDynamics = errors.New("ocp: dynamics callback is nil")

	// ErrNoChannels indicates a problem with no state channels.
	ErrNoChannels = errors.New("ocp: problem has no state channels")

	// ErrBoundsOrder indicates a bound pair with lower > upper.
	ErrBoundsOrder = errors.New("ocp: lower bound exceeds upper bound")
)

// DynamicsFunc returns the state time-derivative and any algebraic
// residuals at one point. x, u, p are the state, control, and
// parameter values; t is the actual (not normalized) time. The
// returned xdot must have len(x) entries; residuals must have exactly
// Problem.Residuals entries (nil when Residuals is zero).
type DynamicsFunc func(x, u, p []float64, t float64) (xdot, residuals []float64)

// IntegrandFunc is the running-cost integrand evaluated per grid point.
type IntegrandFunc func(x, u, p []float64, t float64) float64

// EndpointFunc is a cost term on the trajectory endpoints.
type EndpointFunc func(x0, xf, p []float64, t0, tf float64) float64

// StateInfo describes one state channel. Initial and Final, when
// non-nil, override Bounds at the first and last grid point.
type StateInfo struct {
	Name    string
	Bounds  Bounds
	Initial *Bounds
	Final   *Bounds
}

// ControlInfo describes one control channel.
type ControlInfo struct {
	Name    string
	Bounds  Bounds
	Initial *Bounds
	Final   *Bounds
}

// ParameterInfo describes one static (grid-independent) parameter.
type ParameterInfo struct {
	Name   string
	Bounds Bounds
}

// PathConstraint is a vector-valued constraint enforced at every grid
// point. Eval must return len(Lower) values; equality rows set
// Lower[i] == Upper[i].
type PathConstraint struct {
	Name  string
	Lower []float64
	Upper []float64
	Eval  func(x, u, p []float64, t float64) []float64
}

// BoundaryConstraint couples the two trajectory endpoints.
type BoundaryConstraint struct {
	Name  string
	Lower []float64
	Upper []float64
	Eval  func(x0, xf, p []float64, t0, tf float64) []float64
}

// Problem is a continuous-time optimal-control problem. The dynamics
// callback is mandatory; costs and constraints are optional. All
// callbacks must be pure.
type Problem struct {
	Name string

	States     []StateInfo
	Controls   []ControlInfo
	Parameters []ParameterInfo

	// Bounds on the initial- and final-time decision variables.
	InitialTime Bounds
	FinalTime   Bounds

	// Residuals is the number of algebraic residuals Dynamics returns
	// alongside the state derivative.
	Residuals int

	Dynamics DynamicsFunc

	IntegralCost IntegrandFunc
	EndpointCost EndpointFunc

	PathConstraints []PathConstraint
	Boundary        *BoundaryConstraint
}

// NumStates returns the state channel count.
func (p *Problem) NumStates() int { return len(p.States) }

// NumControls returns the control channel count.
func (p *Problem) NumControls() int { return len(p.Controls) }

// NumParameters returns the static parameter count.
func (p *Problem) NumParameters() int { return len(p.Parameters) }

// Validate checks the definition for construction-time defects:
// missing dynamics, empty state vector, unordered bound pairs, and
// malformed path/boundary constraint bounds.
func (p *Problem) Validate() error {
	if p.Dynamics == nil {
		return ErrNoDynamics
	}
	if len(p.States) == 0 {
		return ErrNoChannels
	}
	if p.Residuals < 0 {
		return fmt.Errorf("ocp: negative residual count %d", p.Residuals)
	}
	for _, s := range p.States {
		if err := checkChannelBounds("state", s.Name, s.Bounds, s.Initial, s.Final); err != nil {
			return err
		}
	}
	for _, c := range p.Controls {
		if err := checkChannelBounds("control", c.Name, c.Bounds, c.Initial, c.Final); err != nil {
			return err
		}
	}
	for _, pr := range p.Parameters {
		if !pr.Bounds.Ordered() {
			return fmt.Errorf("ocp: parameter %q: %w", pr.Name, ErrBoundsOrder)
		}
	}
	if !p.InitialTime.Ordered() {
		return fmt.Errorf("ocp: initial time: %w", ErrBoundsOrder)
	}
	if !p.FinalTime.Ordered() {
		return fmt.Errorf("ocp: final time: %w", ErrBoundsOrder)
	}
	for _, pc := range p.PathConstraints {
		if pc.Eval == nil {
			return fmt.Errorf("ocp: path constraint %q has nil Eval", pc.Name)
		}
		if len(pc.Lower) != len(pc.Upper) {
			return fmt.Errorf("ocp: path constraint %q: %d lower vs %d upper bounds",
				pc.Name, len(pc.Lower), len(pc.Upper))
		}
		for i := range pc.Lower {
			if pc.Lower[i] > pc.Upper[i] {
				return fmt.Errorf("ocp: path constraint %q row %d: %w", pc.Name, i, ErrBoundsOrder)
			}
		}
	}
	if b := p.Boundary; b != nil {
		if b.Eval == nil {
			return fmt.Errorf("ocp: boundary constraint %q has nil Eval", b.Name)
		}
		if len(b.Lower) != len(b.Upper) {
			return fmt.Errorf("ocp: boundary constraint %q: %d lower vs %d upper bounds",
				b.Name, len(b.Lower), len(b.Upper))
		}
		for i := range b.Lower {
			if b.Lower[i] > b.Upper[i] {
				return fmt.Errorf("ocp: boundary constraint %q row %d: %w", b.Name, i, ErrBoundsOrder)
			}
		}
	}
	return nil
}

func checkChannelBounds(kind, name string, interior Bounds, initial, final *Bounds) error {
	if !interior.Ordered() {
		return fmt.Errorf("ocp: %s %q: %w", kind, name, ErrBoundsOrder)
	}
	if initial != nil && !initial.Ordered() {
		return fmt.Errorf("ocp: %s %q initial: %w", kind, name, ErrBoundsOrder)
	}
	if final != nil && !final.Ordered() {
		return fmt.Errorf("ocp: %s %q final: %w", kind, name, ErrBoundsOrder)
	}
	return nil
}
