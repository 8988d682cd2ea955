// Package config holds solver configuration: transcription scheme,
// mesh density, backend selection, and tolerances, loadable from
// yaml. SolverOptions is an opaque pass-through owned by the backend;
// this package never inspects its keys.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScheme              = "trapezoidal"
	DefaultMeshIntervals       = 25
	DefaultSolver              = "auglag"
	DefaultTolerance           = 1e-8
	DefaultConstraintTolerance = 1e-8
	DefaultMaxIterations       = 3000
)

type Config struct {
	Scheme              string             `yaml:"scheme"`
	MeshIntervals       int                `yaml:"mesh_intervals"`
	Solver              string             `yaml:"solver"`
	Tolerance           float64            `yaml:"tolerance"`
	ConstraintTolerance float64            `yaml:"constraint_tolerance"`
	MaxIterations       int                `yaml:"max_iterations"`
	Seed                int64              `yaml:"seed"`
	SolverOptions       map[string]float64 `yaml:"solver_options"`
}

func Default() Config {
	return Config{
		Scheme:              DefaultScheme,
		MeshIntervals:       DefaultMeshIntervals,
		Solver:              DefaultSolver,
		Tolerance:           DefaultTolerance,
		ConstraintTolerance: DefaultConstraintTolerance,
		MaxIterations:       DefaultMaxIterations,
	}
}

// Load reads a yaml file over the defaults: absent keys keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Scheme == "" {
		return fmt.Errorf("config: scheme must be set")
	}
	if c.MeshIntervals < 1 {
		return fmt.Errorf("config: mesh_intervals must be >= 1, got %d", c.MeshIntervals)
	}
	if c.Solver == "" {
		return fmt.Errorf("config: solver must be set")
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("config: tolerance must be positive, got %g", c.Tolerance)
	}
	if c.ConstraintTolerance <= 0 {
		return fmt.Errorf("config: constraint_tolerance must be positive, got %g", c.ConstraintTolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("config: max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	return nil
}
