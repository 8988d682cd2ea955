package transcribe

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/ocp"
)

// boundMatrices holds the dense lower/upper matrices for one block.
type boundMatrices struct {
	lower *mat.Dense
	upper *mat.Dense
}

func newBoundMatrices(rows, cols int) boundMatrices {
	lo := mat.NewDense(rows, cols, nil)
	hi := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lo.Set(r, c, math.Inf(-1))
			hi.Set(r, c, math.Inf(1))
		}
	}
	return boundMatrices{lower: lo, upper: hi}
}

// setChannel writes one channel's bound specification into row of the
// matrices: the interior range on every column, with the initial and
// final overrides (when present) taking precedence at column 0 and
// the last column. Idempotent by construction.
func (b boundMatrices) setChannel(row int, interior ocp.Bounds, initial, final *ocp.Bounds) {
	_, cols := b.lower.Dims()
	for c := 0; c < cols; c++ {
		b.lower.Set(row, c, interior.Lower)
		b.upper.Set(row, c, interior.Upper)
	}
	if initial != nil {
		b.lower.Set(row, 0, initial.Lower)
		b.upper.Set(row, 0, initial.Upper)
	}
	if final != nil {
		b.lower.Set(row, cols-1, final.Lower)
		b.upper.Set(row, cols-1, final.Upper)
	}
}

// setScalar writes a scalar block's bounds.
func (b boundMatrices) setScalar(bounds ocp.Bounds) {
	b.lower.Set(0, 0, bounds.Lower)
	b.upper.Set(0, 0, bounds.Upper)
}

// ordered reports whether lower <= upper holds for every entry.
func (b boundMatrices) ordered() bool {
	rows, cols := b.lower.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if b.lower.At(r, c) > b.upper.At(r, c) {
				return false
			}
		}
	}
	return true
}
