// Package ttesting contains assertions shared by the sprite sheet tests.
package ttesting

import (
	"image"
	"image/color"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualRect(t *testing.T, name string, got, want image.Rectangle) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if !got.Eq(want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertColorAt compares the pixel at (x, y) to want in non-premultiplied RGBA.
func AssertColorAt(t *testing.T, name string, img image.Image, x, y int, want color.Color) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		w := color.NRGBAModel.Convert(want).(color.NRGBA)
		if got != w {
			t.Errorf("pixel at %d,%d: got %v; want %v", x, y, got, w)
		}
	})
}
