package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solve.yaml")
	body := "scheme: hermite-simpson\nmesh_intervals: 40\nsolver_options:\n  penalty_initial: 100\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scheme != "hermite-simpson" {
		t.Errorf("scheme = %q", cfg.Scheme)
	}
	if cfg.MeshIntervals != 40 {
		t.Errorf("mesh_intervals = %d", cfg.MeshIntervals)
	}
	// Untouched keys keep defaults.
	if cfg.Solver != DefaultSolver {
		t.Errorf("solver = %q, want default", cfg.Solver)
	}
	if cfg.Tolerance != DefaultTolerance {
		t.Errorf("tolerance = %g, want default", cfg.Tolerance)
	}
	if cfg.SolverOptions["penalty_initial"] != 100 {
		t.Errorf("solver_options not passed through: %v", cfg.SolverOptions)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty scheme", func(c *Config) { c.Scheme = "" }},
		{"zero mesh", func(c *Config) { c.MeshIntervals = 0 }},
		{"empty solver", func(c *Config) { c.Solver = "" }},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"negative constraint tolerance", func(c *Config) { c.ConstraintTolerance = -1 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
