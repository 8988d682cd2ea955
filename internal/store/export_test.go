package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/transcribe"
)

func solvedIntegrator(t *testing.T) (*transcribe.Transcription, *transcribe.Solution) {
	t.Helper()
	problem := models.Integrator()
	cfg := config.Default()
	cfg.MeshIntervals = 4
	tr, err := transcribe.New(problem, cfg)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	sol, err := tr.Solve(nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return tr, sol
}

func TestBuildNamesChannels(t *testing.T) {
	tr, sol := solvedIntegrator(t)
	data := Build(models.Integrator(), tr.SchemeName(), sol)

	if data.Problem != "integrator" {
		t.Errorf("problem = %q", data.Problem)
	}
	if data.Scheme != "trapezoidal" {
		t.Errorf("scheme = %q", data.Scheme)
	}
	if len(data.Times) != 5 {
		t.Errorf("times len = %d", len(data.Times))
	}
	if _, ok := data.States["x"]; !ok {
		t.Error("missing state series x")
	}
	if _, ok := data.Controls["u"]; !ok {
		t.Error("missing control series u")
	}
	if len(data.States["x"]) != len(data.Times) {
		t.Error("series length must match times")
	}
	if data.Stats.Status == "" {
		t.Error("stats not attached")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	tr, sol := solvedIntegrator(t)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, models.Integrator(), tr.SchemeName(), sol); err != nil {
		t.Fatalf("write: %v", err)
	}

	var back ExportData
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.FinalTime != 1.0 {
		t.Errorf("final_time = %g", back.FinalTime)
	}
	if len(back.States["x"]) != 5 {
		t.Errorf("state series lost: %v", back.States)
	}
}

func TestExportJSONFile(t *testing.T) {
	tr, sol := solvedIntegrator(t)
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, models.Integrator(), tr.SchemeName(), sol); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !json.Valid(data) {
		t.Error("exported file is not valid JSON")
	}
}
