// Package models provides ready-made optimal-control problems for
// the CLI and for integration tests. Each constructor returns a fresh
// [ocp.Problem]; the registry maps CLI names onto constructors.
package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/trajopt/internal/ocp"
)

var registry = map[string]func() *ocp.Problem{
	"integrator":        Integrator,
	"integrator-target": IntegratorToTarget,
	"pendulum-swingup":  PendulumSwingup,
}

// Names returns the registered problem names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a fresh instance of the named problem.
func Get(name string) (*ocp.Problem, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("models: unknown problem %q", name)
	}
	return build(), nil
}

// Integrator is the minimum-energy single integrator: xdot = u on
// [0, 1], x(0) = 0 with a free endpoint, u in [-1, 1], minimizing
// the integral of u^2. The optimum is u = 0 with zero cost.
func Integrator() *ocp.Problem {
	x0 := ocp.Fixed(0)
	return &ocp.Problem{
		Name:        "integrator",
		States:      []ocp.StateInfo{{Name: "x", Bounds: ocp.Free(), Initial: &x0}},
		Controls:    []ocp.ControlInfo{{Name: "u", Bounds: ocp.Range(-1, 1)}},
		InitialTime: ocp.Fixed(0),
		FinalTime:   ocp.Fixed(1),
		Dynamics: func(x, u, p []float64, t float64) ([]float64, []float64) {
			return []float64{u[0]}, nil
		},
		IntegralCost: func(x, u, p []float64, t float64) float64 {
			return u[0] * u[0]
		},
	}
}

// IntegratorToTarget is the Integrator with the endpoint pinned at
// x(1) = 1. The optimum is the constant control u = 1 with cost 1.
func IntegratorToTarget() *ocp.Problem {
	p := Integrator()
	p.Name = "integrator-target"
	xf := ocp.Fixed(1)
	p.States[0].Final = &xf
	// The unit target needs the full control authority.
	p.Controls[0].Bounds = ocp.Range(-2, 2)
	return p
}

// Pendulum physical constants, shared with the swing-up problem.
const (
	pendulumMass    = 1.0
	pendulumLength  = 1.0
	pendulumDamping = 0.1
	pendulumGravity = 9.81
)

// PendulumSwingup drives a damped pendulum from hanging rest to the
// upright equilibrium over a fixed five-second horizon with bounded
// torque, minimizing control energy. States are angle (from the
// stable equilibrium) and angular velocity.
func PendulumSwingup() *ocp.Problem {
	theta0 := ocp.Fixed(0)
	thetaF := ocp.Fixed(math.Pi)
	omega0 := ocp.Fixed(0)
	omegaF := ocp.Fixed(0)
	return &ocp.Problem{
		Name: "pendulum-swingup",
		States: []ocp.StateInfo{
			{Name: "theta", Bounds: ocp.Range(-2*math.Pi, 2*math.Pi), Initial: &theta0, Final: &thetaF},
			{Name: "omega", Bounds: ocp.Range(-10, 10), Initial: &omega0, Final: &omegaF},
		},
		Controls: []ocp.ControlInfo{
			{Name: "torque", Bounds: ocp.Range(-15, 15)},
		},
		InitialTime: ocp.Fixed(0),
		FinalTime:   ocp.Fixed(5),
		Dynamics: func(x, u, p []float64, t float64) ([]float64, []float64) {
			theta, omega := x[0], x[1]
			ml2 := pendulumMass * pendulumLength * pendulumLength
			alpha := (-pendulumDamping*omega -
				pendulumMass*pendulumGravity*pendulumLength*math.Sin(theta) +
				u[0]) / ml2
			return []float64{omega, alpha}, nil
		},
		IntegralCost: func(x, u, p []float64, t float64) float64 {
			return u[0] * u[0]
		},
	}
}
