// Package compositor paints a series of images into a single sprite sheet.
//
// Every image of the series gets a cell of the same size, the size of the
// largest width and the largest height found in the series. Cells are filled
// in raster order: left to right, then top to bottom. Images are anchored at
// the top left corner of their cell and are never scaled, so an image smaller
// than the cell leaves the rest of the cell transparent.
//
// Only one source image is held in memory at a time; it is loaded, drawn into
// the canvas and dropped before the next one is loaded.
package compositor

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/grid"
)

// ImageRef describes one source image of the sheet.
type ImageRef struct {
	Path   string
	Width  int
	Height int
}

// Size returns the dimensions of the referenced image.
func (r ImageRef) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

// BoundingBox returns the largest width and the largest height among refs.
func BoundingBox(refs []ImageRef) image.Point {
	var box image.Point
	for _, r := range refs {
		if r.Width > box.X {
			box.X = r.Width
		}
		if r.Height > box.Y {
			box.Y = r.Height
		}
	}
	return box
}

// Loader decodes the image stored at path.
type Loader interface {
	Load(path string) (image.Image, error)
}

// LoaderFunc adapts an ordinary function to a Loader.
type LoaderFunc func(path string) (image.Image, error)

func (f LoaderFunc) Load(path string) (image.Image, error) {
	return f(path)
}

// Composer draws sources into a canvas in the order they are passed.
type Composer struct {
	Loader Loader

	// Progress, if set, is called after the i-th of n sources was drawn.
	Progress func(i, n int, ref ImageRef)
}

// Compose allocates a canvas for shape with cells of the passed size and draws
// every source into it. If any source fails to load, the canvas is discarded
// and the error is returned.
func (c *Composer) Compose(refs []ImageRef, shape grid.Shape, cell image.Point) (*image.NRGBA, error) {
	if len(refs) == 0 {
		return nil, errors.New("compositor: no images to compose")
	}
	if shape.Columns < 1 || shape.Rows < 1 || shape.Cells() < len(refs) {
		return nil, errors.Errorf("compositor: grid %v has no room for %d images", shape, len(refs))
	}
	if cell.X < 1 || cell.Y < 1 {
		return nil, errors.Errorf("compositor: invalid cell size %v", cell)
	}

	canvas := NewCanvas(shape, cell)
	glog.V(1).Infof("compositing %d images into %v grid, cell %v, canvas %v", len(refs), shape, cell, canvas.Bounds().Size())

	for i, ref := range refs {
		src, err := c.Loader.Load(ref.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "compositor: loading image %d of %d", i+1, len(refs))
		}
		dst, err := canvas.Place(src)
		if err != nil {
			return nil, errors.Wrapf(err, "compositor: placing %q", ref.Path)
		}
		glog.V(2).Infof("placed %q (%v) at %v", ref.Path, src.Bounds().Size(), dst)

		if c.Progress != nil {
			c.Progress(i, len(refs), ref)
		}
	}

	return canvas.Image(), nil
}

// Compose is a shorthand for a Composer with the passed loader and no
// progress reporting.
func Compose(refs []ImageRef, shape grid.Shape, cell image.Point, l Loader) (*image.NRGBA, error) {
	c := &Composer{Loader: l}
	return c.Compose(refs, shape, cell)
}
