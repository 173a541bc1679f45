package compositor

import (
	"image"

	"badc0de.net/pkg/go-spritesheet/grid"
)

// Frame is where a source image ends up on the sheet.
type Frame struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

// Rect returns the frame as a rectangle in sheet coordinates.
func (f Frame) Rect() image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H)
}

// Layout computes the frame of every source without touching any pixels. The
// result matches what Compose draws for the same arguments.
func Layout(refs []ImageRef, shape grid.Shape, cell image.Point) []Frame {
	frames := make([]Frame, 0, len(refs))
	for i, ref := range refs {
		col, row := shape.Cell(i)
		w, h := ref.Width, ref.Height
		if w > cell.X {
			w = cell.X
		}
		if h > cell.Y {
			h = cell.Y
		}
		frames = append(frames, Frame{
			Path: ref.Path,
			X:    col * cell.X,
			Y:    row * cell.Y,
			W:    w,
			H:    h,
		})
	}
	return frames
}
