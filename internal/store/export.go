// Package store serializes solved trajectories for external tools.
package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/transcribe"
)

// ExportData is the JSON shape of a solved trajectory: named time
// series per channel plus the raw solver statistics.
type ExportData struct {
	Problem     string               `json:"problem"`
	Scheme      string               `json:"scheme"`
	InitialTime float64              `json:"initial_time"`
	FinalTime   float64              `json:"final_time"`
	Times       []float64            `json:"times"`
	States      map[string][]float64 `json:"states"`
	Controls    map[string][]float64 `json:"controls,omitempty"`
	Parameters  map[string]float64   `json:"parameters,omitempty"`
	Stats       StatsData            `json:"stats"`
}

// StatsData mirrors the backend's convergence report.
type StatsData struct {
	Status              string  `json:"status"`
	Iterations          int     `json:"iterations"`
	Objective           float64 `json:"objective"`
	ConstraintViolation float64 `json:"constraint_violation"`
	ElapsedSeconds      float64 `json:"elapsed_seconds"`
}

// Build assembles the export form of a solution, naming each channel
// row after its problem definition.
func Build(problem *ocp.Problem, scheme string, sol *transcribe.Solution) ExportData {
	data := ExportData{
		Problem:     problem.Name,
		Scheme:      scheme,
		InitialTime: sol.InitialTime(),
		FinalTime:   sol.FinalTime(),
		Times:       append([]float64(nil), sol.Times...),
		States:      make(map[string][]float64, len(problem.States)),
		Stats: StatsData{
			Status:              string(sol.Stats.Status),
			Iterations:          sol.Stats.Iterations,
			Objective:           sol.Stats.Objective,
			ConstraintViolation: sol.Stats.ConstraintViolation,
			ElapsedSeconds:      sol.Stats.Elapsed.Seconds(),
		},
	}

	states := sol.Vars[transcribe.KindStates]
	for r, s := range problem.States {
		row := make([]float64, len(sol.Times))
		for c := range row {
			row[c] = states.At(r, c)
		}
		data.States[s.Name] = row
	}

	if len(problem.Controls) > 0 {
		controls := sol.Vars[transcribe.KindControls]
		data.Controls = make(map[string][]float64, len(problem.Controls))
		for r, c := range problem.Controls {
			row := make([]float64, len(sol.Times))
			for col := range row {
				row[col] = controls.At(r, col)
			}
			data.Controls[c.Name] = row
		}
	}

	if len(problem.Parameters) > 0 {
		params := sol.Vars[transcribe.KindParameters]
		data.Parameters = make(map[string]float64, len(problem.Parameters))
		for r, p := range problem.Parameters {
			data.Parameters[p.Name] = params.At(r, 0)
		}
	}

	return data
}

// WriteJSON writes the indented JSON form of a solution to w.
func WriteJSON(w io.Writer, problem *ocp.Problem, scheme string, sol *transcribe.Solution) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Build(problem, scheme, sol))
}

// ExportJSON writes the solution to a file.
func ExportJSON(path string, problem *ocp.Problem, scheme string, sol *transcribe.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, problem, scheme, sol)
}
