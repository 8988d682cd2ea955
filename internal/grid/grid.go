// Package grid builds normalized collocation grids and quadrature
// weights for transcription schemes.
//
// A grid lives on [0, 1]; actual times come from scaling by the
// (initialTime, finalTime) decision variables via [Grid.Times]. Mesh
// points sit on interval boundaries; higher-order schemes add
// collocation points on mesh interiors. Quadrature weights sum to 1
// so that integral costs scale with the true duration through a
// single multiplier.
package grid

import (
	"errors"
	"fmt"
)

// ErrTooFewIntervals indicates a requested mesh with fewer than one
// interval.
var ErrTooFewIntervals = errors.New("grid: mesh needs at least one interval")

// Grid is an ordered set of normalized collocation points with the
// quadrature weights and constraint-enforcement marks that go with
// them. Kinematic[i] reports whether algebraic residuals are enforced
// at point i; schemes with interior collocation points skip them
// there to keep the constraint count down.
type Grid struct {
	Points     []float64
	Quadrature []float64
	Kinematic  []bool

	Intervals         int
	PointsPerInterval int
}

// NumPoints returns the total grid point count.
func (g *Grid) NumPoints() int { return len(g.Points) }

// Times maps the normalized grid onto actual times for the given
// endpoint values: t[i] = t0 + Points[i]*(tf-t0).
func (g *Grid) Times(t0, tf float64) []float64 {
	times := make([]float64, len(g.Points))
	for i, p := range g.Points {
		times[i] = t0 + p*(tf-t0)
	}
	return times
}

// Trapezoidal builds a uniform grid for trapezoidal collocation:
// intervals+1 mesh points, composite-trapezoid weights, kinematic
// enforcement at every point.
func Trapezoidal(intervals int) (*Grid, error) {
	if intervals < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewIntervals, intervals)
	}
	n := intervals + 1
	h := 1.0 / float64(intervals)

	g := &Grid{
		Points:            make([]float64, n),
		Quadrature:        make([]float64, n),
		Kinematic:         make([]bool, n),
		Intervals:         intervals,
		PointsPerInterval: 1,
	}
	for i := 0; i < n; i++ {
		g.Points[i] = float64(i) * h
		g.Quadrature[i] = h
		g.Kinematic[i] = true
	}
	g.Points[n-1] = 1.0
	g.Quadrature[0] = h / 2
	g.Quadrature[n-1] = h / 2
	return g, nil
}

// HermiteSimpson builds a uniform grid for Hermite-Simpson
// collocation: 2*intervals+1 points (mesh points plus interval
// midpoints), composite-Simpson weights, kinematic enforcement at
// mesh points only.
func HermiteSimpson(intervals int) (*Grid, error) {
	if intervals < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewIntervals, intervals)
	}
	n := 2*intervals + 1
	h := 1.0 / float64(intervals)

	g := &Grid{
		Points:            make([]float64, n),
		Quadrature:        make([]float64, n),
		Kinematic:         make([]bool, n),
		Intervals:         intervals,
		PointsPerInterval: 2,
	}
	for i := 0; i < n; i++ {
		g.Points[i] = float64(i) * h / 2
		if i%2 == 0 {
			// Mesh point: h/3 interior shared between two intervals,
			// h/6 at the endpoints.
			g.Quadrature[i] = h / 3
			g.Kinematic[i] = true
		} else {
			// Midpoint collocation point.
			g.Quadrature[i] = 2 * h / 3
		}
	}
	g.Points[n-1] = 1.0
	g.Quadrature[0] = h / 6
	g.Quadrature[n-1] = h / 6
	return g, nil
}
