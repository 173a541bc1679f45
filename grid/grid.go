// Package grid decides how many columns and rows a sprite sheet has.
package grid

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrEmpty is returned when planning a grid for no elements.
var ErrEmpty = errors.New("grid: cannot plan a grid for zero elements")

// Shape is the number of columns and rows of a sheet.
type Shape struct {
	Columns int
	Rows    int
}

// Cells returns the number of cells in the grid.
func (s Shape) Cells() int {
	return s.Columns * s.Rows
}

// Cell returns the column and row of the i-th cell in raster order.
func (s Shape) Cell(i int) (col, row int) {
	return i % s.Columns, i / s.Columns
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Columns, s.Rows)
}

// Plan returns a near-square grid with room for count elements.
//
// A perfect square gets a square grid. Otherwise the column count is the
// square root rounded to nearest (ties to even) and there is one more row
// than columns, so the last row may be partially empty.
func Plan(count int) (Shape, error) {
	if count <= 0 {
		return Shape{}, errors.Wrapf(ErrEmpty, "count %d", count)
	}

	root := math.Sqrt(float64(count))
	if n := int(root); n*n == count {
		return Shape{Columns: n, Rows: n}, nil
	}

	cols := int(math.RoundToEven(root))
	return Shape{Columns: cols, Rows: cols + 1}, nil
}
