package transcribe

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Kind identifies a decision-variable block. The integer values fix
// the canonical flatten order: blocks are concatenated in ascending
// Kind, and within a block column-major (all channels of one grid
// point stay contiguous). This order is a contract with the solver's
// sparsity structure; never rely on map iteration instead.
type Kind int

const (
	KindInitialTime Kind = iota
	KindFinalTime
	KindStates
	KindControls
	KindParameters
	// KindSlacks is reserved for schemes that introduce slack
	// variables; no current scheme allocates it.
	KindSlacks
)

func (k Kind) String() string {
	switch k {
	case KindInitialTime:
		return "initial_time"
	case KindFinalTime:
		return "final_time"
	case KindStates:
		return "states"
	case KindControls:
		return "controls"
	case KindParameters:
		return "parameters"
	case KindSlacks:
		return "slacks"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrBadLength indicates a flat vector whose length does not match
// the store's scalar count.
var ErrBadLength = errors.New("transcribe: flat vector length mismatch")

// Shape is the dimensions of one variable block: Rows channels by
// Cols grid points (1x1 for scalars such as the time endpoints).
type Shape struct {
	Rows int
	Cols int
}

// Count returns the scalar entry count of the block.
func (s Shape) Count() int { return s.Rows * s.Cols }

// Vars assigns a dense value matrix to each variable block.
type Vars map[Kind]*mat.Dense

// Clone deep-copies the assignment.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, m := range v {
		out[k] = mat.DenseCopyOf(m)
	}
	return out
}

// Store is the immutable shape registry for one transcription: which
// blocks exist and their dimensions. It owns the flatten/expand codec
// between the named block structure and the solver's flat vector.
type Store struct {
	shapes map[Kind]Shape
	kinds  []Kind
	total  int
}

func newStore(shapes map[Kind]Shape) *Store {
	s := &Store{
		shapes: make(map[Kind]Shape, len(shapes)),
		kinds:  make([]Kind, 0, len(shapes)),
	}
	for k, sh := range shapes {
		s.shapes[k] = sh
		s.kinds = append(s.kinds, k)
		s.total += sh.Count()
	}
	sort.Slice(s.kinds, func(i, j int) bool { return s.kinds[i] < s.kinds[j] })
	return s
}

// Kinds returns the block identifiers in canonical (ascending) order.
func (s *Store) Kinds() []Kind {
	out := make([]Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Shape returns the dimensions of block k.
func (s *Store) Shape(k Kind) (Shape, bool) {
	sh, ok := s.shapes[k]
	return sh, ok
}

// NumScalars returns the flat decision-vector length.
func (s *Store) NumScalars() int { return s.total }

// Zeros allocates a zeroed assignment for every block in the store.
func (s *Store) Zeros() Vars {
	v := make(Vars, len(s.kinds))
	for _, k := range s.kinds {
		sh := s.shapes[k]
		v[k] = mat.NewDense(sh.Rows, sh.Cols, nil)
	}
	return v
}

// Flatten concatenates the assignment into one flat vector in
// canonical order. Every block in the store must be present with the
// registered shape.
func (s *Store) Flatten(v Vars) []float64 {
	x := make([]float64, 0, s.total)
	for _, k := range s.kinds {
		m, ok := v[k]
		sh := s.shapes[k]
		if !ok {
			panic(fmt.Sprintf("transcribe: flatten missing block %s", k))
		}
		r, c := m.Dims()
		if r != sh.Rows || c != sh.Cols {
			panic(fmt.Sprintf("transcribe: flatten block %s has shape %dx%d, want %dx%d",
				k, r, c, sh.Rows, sh.Cols))
		}
		for col := 0; col < sh.Cols; col++ {
			for row := 0; row < sh.Rows; row++ {
				x = append(x, m.At(row, col))
			}
		}
	}
	return x
}

// Expand is the exact inverse of Flatten: it slices the flat vector
// back into per-block matrices in canonical order.
func (s *Store) Expand(x []float64) (Vars, error) {
	if len(x) != s.total {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadLength, len(x), s.total)
	}
	v := make(Vars, len(s.kinds))
	offset := 0
	for _, k := range s.kinds {
		sh := s.shapes[k]
		m := mat.NewDense(sh.Rows, sh.Cols, nil)
		for col := 0; col < sh.Cols; col++ {
			for row := 0; row < sh.Rows; row++ {
				m.Set(row, col, x[offset])
				offset++
			}
		}
		v[k] = m
	}
	return v, nil
}
