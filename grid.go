package lifegrid

import "fmt"

// Grid describes the simulation domain: an N×N toroidal array of cells
// stored row-major. Grid is a value; the dimension is fixed at creation
// and the cell count never changes for the life of the engine.
type Grid struct {
	n int
}

// NewGrid returns a grid of dimension n.
// Returns ErrInvalidGridSize if n is not positive.
func NewGrid(n int) (Grid, error) {
	if n <= 0 {
		return Grid{}, fmt.Errorf("%w: %d", ErrInvalidGridSize, n)
	}
	return Grid{n: n}, nil
}

// Size returns the grid dimension N.
func (g Grid) Size() int { return g.n }

// Cells returns the total cell count N².
func (g Grid) Cells() int { return g.n * g.n }

// Index returns the row-major buffer index of cell (x, y).
// Coordinates must already be in range; use Wrap for toroidal lookups.
func (g Grid) Index(x, y int) int { return y*g.n + x }

// Wrap maps arbitrary coordinates onto the torus. Offsets of at most one
// grid length in either direction are supported, which covers every
// neighborhood lookup.
func (g Grid) Wrap(x, y int) (int, int) {
	return (x + g.n) % g.n, (y + g.n) % g.n
}

// QuadVertices returns the vertex template for one cell: a unit square
// split into two triangles, as 6 interleaved (x, y) pairs. The template
// is shared by every cell instance and never mutated; the renderer
// positions and scales it into each cell's grid slot.
func QuadVertices() []float32 {
	return []float32{
		0, 0, 1, 0, 0, 1, // first triangle
		1, 0, 1, 1, 0, 1, // second triangle
	}
}
