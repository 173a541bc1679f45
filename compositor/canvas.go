package compositor

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"badc0de.net/pkg/go-spritesheet/grid"
)

// ErrCanvasFull is returned by Place once every cell holds an image.
var ErrCanvasFull = errors.New("compositor: no free cell left on canvas")

// Canvas is a sprite sheet under construction.
//
// The whole pixel buffer is allocated by NewCanvas. A cursor walks the cells in
// raster order; each Place draws into the cell under the cursor and advances
// it.
type Canvas struct {
	img   *image.NRGBA
	shape grid.Shape
	cell  image.Point

	col, row int
}

// NewCanvas allocates a transparent canvas of shape.Columns*cell.X by
// shape.Rows*cell.Y pixels.
func NewCanvas(shape grid.Shape, cell image.Point) *Canvas {
	return &Canvas{
		img:   image.NewNRGBA(image.Rect(0, 0, shape.Columns*cell.X, shape.Rows*cell.Y)),
		shape: shape,
		cell:  cell,
	}
}

// Bounds returns the bounds of the whole canvas.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns the pixel buffer.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// Cursor returns the column and row the next Place will draw into.
func (c *Canvas) Cursor() (col, row int) {
	return c.col, c.row
}

// CellRect returns the pixel rectangle of the cell at col, row.
func (c *Canvas) CellRect(col, row int) image.Rectangle {
	origin := image.Pt(col*c.cell.X, row*c.cell.Y)
	return image.Rectangle{Min: origin, Max: origin.Add(c.cell)}
}

// Place draws src into the cell under the cursor, anchored at the cell's top
// left corner, and moves the cursor to the next cell. Parts of src that do not
// fit the cell are clipped. It returns the rectangle that was drawn.
func (c *Canvas) Place(src image.Image) (image.Rectangle, error) {
	if c.row >= c.shape.Rows {
		return image.Rectangle{}, ErrCanvasFull
	}

	cell := c.CellRect(c.col, c.row)
	dst := image.Rectangle{Min: cell.Min, Max: cell.Min.Add(src.Bounds().Size())}.Intersect(cell)
	draw.Draw(c.img, dst, src, src.Bounds().Min, draw.Src)

	c.col++
	if c.col == c.shape.Columns {
		c.col = 0
		c.row++
	}
	return dst, nil
}
