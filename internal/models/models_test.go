package models

import (
	"math"
	"testing"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/transcribe"
)

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 problems, got %v", names)
	}
	for _, name := range names {
		p, err := Get(name)
		if err != nil {
			t.Fatalf("get %q: %v", name, err)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%q does not validate: %v", name, err)
		}
	}
	if _, err := Get("brachistochrone"); err == nil {
		t.Error("expected error for unknown problem")
	}
}

func TestGetReturnsFreshInstances(t *testing.T) {
	a, _ := Get("integrator")
	b, _ := Get("integrator")
	a.Name = "mutated"
	a.States[0].Bounds.Lower = -7
	if b.Name != "integrator" || b.States[0].Bounds.Lower == -7 {
		t.Error("instances must not alias")
	}
}

func solveCfg(mesh int) config.Config {
	cfg := config.Default()
	cfg.MeshIntervals = mesh
	cfg.Tolerance = 1e-7
	cfg.ConstraintTolerance = 1e-5
	cfg.MaxIterations = 30000
	cfg.SolverOptions = map[string]float64{"inner_iterations": 400}
	return cfg
}

func TestIntegratorSolvesToZeroCost(t *testing.T) {
	tr, err := transcribe.New(Integrator(), solveCfg(10))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	sol, err := tr.Solve(nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.Stats.Success() {
		t.Fatalf("status %s", sol.Stats.Status)
	}
	if math.Abs(sol.Stats.Objective) > 1e-6 {
		t.Errorf("objective = %g, want ~0", sol.Stats.Objective)
	}
}

func TestIntegratorToTargetRecoversConstantControl(t *testing.T) {
	tr, err := transcribe.New(IntegratorToTarget(), solveCfg(5))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	sol, err := tr.Solve(nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Stats.ConstraintViolation > 1e-3 {
		t.Fatalf("defects not satisfied: violation %g (status %s)",
			sol.Stats.ConstraintViolation, sol.Stats.Status)
	}

	// Minimum energy from 0 to 1 in unit time is u = 1, J = 1.
	if math.Abs(sol.Stats.Objective-1.0) > 0.1 {
		t.Errorf("objective = %g, want ~1", sol.Stats.Objective)
	}
	u := sol.Vars[transcribe.KindControls]
	_, cols := u.Dims()
	for c := 0; c < cols; c++ {
		if math.Abs(u.At(0, c)-1.0) > 0.1 {
			t.Errorf("u[%d] = %g, want ~1", c, u.At(0, c))
		}
	}

	// The state should climb roughly linearly to the target.
	x := sol.Vars[transcribe.KindStates]
	for c, tv := range sol.Times {
		if math.Abs(x.At(0, c)-tv) > 0.1 {
			t.Errorf("x(%g) = %g, want ~%g", tv, x.At(0, c), tv)
		}
	}
}

func TestRefinementDoesNotImproveBeyondLimit(t *testing.T) {
	// The discretized optimum cannot keep decreasing as the mesh
	// refines; for this problem it sits at the continuous optimum 1
	// for every density.
	objectives := make([]float64, 0, 3)
	for _, mesh := range []int{3, 5, 8} {
		tr, err := transcribe.New(IntegratorToTarget(), solveCfg(mesh))
		if err != nil {
			t.Fatalf("mesh %d: %v", mesh, err)
		}
		sol, err := tr.Solve(nil)
		if err != nil {
			t.Fatalf("mesh %d solve: %v", mesh, err)
		}
		if sol.Stats.ConstraintViolation > 1e-3 {
			t.Fatalf("mesh %d infeasible: %g", mesh, sol.Stats.ConstraintViolation)
		}
		objectives = append(objectives, sol.Stats.Objective)
	}
	for i := 1; i < len(objectives); i++ {
		if objectives[i] < objectives[i-1]-1e-2 {
			t.Errorf("objective dropped on refinement: %v", objectives)
		}
	}
}
