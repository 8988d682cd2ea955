package transcribe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/ocp"
)

func TestBoundsDefaultIsFree(t *testing.T) {
	b := newBoundMatrices(2, 3)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.True(t, math.IsInf(b.lower.At(r, c), -1))
			assert.True(t, math.IsInf(b.upper.At(r, c), 1))
		}
	}
}

func TestSetChannelInteriorAndOverrides(t *testing.T) {
	b := newBoundMatrices(2, 6)
	first := ocp.Fixed(0)
	final := ocp.Range(3, 4)
	b.setChannel(0, ocp.Range(-1, 1), &first, &final)
	b.setChannel(1, ocp.Range(-9, 9), nil, nil)

	// Row 0: overrides at the end columns, interior elsewhere.
	assert.Equal(t, 0.0, b.lower.At(0, 0))
	assert.Equal(t, 0.0, b.upper.At(0, 0))
	assert.Equal(t, 3.0, b.lower.At(0, 5))
	assert.Equal(t, 4.0, b.upper.At(0, 5))
	for c := 1; c < 5; c++ {
		assert.Equal(t, -1.0, b.lower.At(0, c), "col %d", c)
		assert.Equal(t, 1.0, b.upper.At(0, c), "col %d", c)
	}

	// Row 1: interior everywhere, including the end columns.
	for c := 0; c < 6; c++ {
		assert.Equal(t, -9.0, b.lower.At(1, c))
		assert.Equal(t, 9.0, b.upper.At(1, c))
	}
}

func TestSetChannelIdempotent(t *testing.T) {
	build := func() boundMatrices {
		b := newBoundMatrices(1, 4)
		first := ocp.Fixed(2)
		b.setChannel(0, ocp.Range(0, 10), &first, nil)
		return b
	}
	once := build()
	twice := build()
	twice.setChannel(0, ocp.Range(0, 10), func() *ocp.Bounds { v := ocp.Fixed(2); return &v }(), nil)

	assert.True(t, mat.Equal(once.lower, twice.lower))
	assert.True(t, mat.Equal(once.upper, twice.upper))
}

func TestSetChannelSingleColumn(t *testing.T) {
	// With one grid point the final override wins over the initial
	// one, both land on column 0.
	b := newBoundMatrices(1, 1)
	first := ocp.Fixed(1)
	final := ocp.Fixed(2)
	b.setChannel(0, ocp.Free(), &first, &final)
	assert.Equal(t, 2.0, b.lower.At(0, 0))
	assert.Equal(t, 2.0, b.upper.At(0, 0))
}

func TestOrdered(t *testing.T) {
	b := newBoundMatrices(1, 3)
	b.setChannel(0, ocp.Range(-1, 1), nil, nil)
	assert.True(t, b.ordered())

	b.lower.Set(0, 1, 5)
	assert.False(t, b.ordered())
}
