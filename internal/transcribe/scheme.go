package transcribe

import (
	"errors"
	"fmt"

	"github.com/san-kum/trajopt/internal/grid"
)

// ErrUnknownScheme indicates a scheme name outside the supported set.
var ErrUnknownScheme = errors.New("transcribe: unknown scheme")

// Scheme is one transcription variant. The set is closed: a scheme
// supplies its grid topology and its defect formula, nothing else
// varies across variants. Schemes hold no state; they are consulted
// only during assembly.
type Scheme interface {
	Name() string

	// BuildGrid returns the grid, quadrature weights, and kinematic
	// enforcement marks for the requested mesh density.
	BuildGrid(intervals int) (*grid.Grid, error)

	// ApplyDefects emits the scheme's defect constraints onto the
	// transcription, one equality block per mesh interval.
	ApplyDefects(t *Transcription)
}

// SchemeNames lists the supported scheme identifiers.
func SchemeNames() []string {
	return []string{"trapezoidal", "hermite-simpson"}
}

func schemeByName(name string) (Scheme, error) {
	switch name {
	case "trapezoidal":
		return trapezoidal{}, nil
	case "hermite-simpson":
		return hermiteSimpson{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}
