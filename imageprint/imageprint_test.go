package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-spritesheet/ttesting"
)

func TestPrintNoColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF})
	img.Set(1, 0, color.NRGBA{0x00, 0x00, 0x00, 0xFF})
	img.Set(2, 1, color.NRGBA{0x50, 0x50, 0x50, 0xFF})

	var buf bytes.Buffer
	if err := Print(&buf, img, ModeNoColor, false); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "output", buf.String(), "##..  \n    ==\n")
}

func TestPrint24BitBlanks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{1, 2, 3, 0xFF})

	var buf bytes.Buffer
	if err := Print(&buf, img, Mode24Bit, true); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "output", buf.String(), "\x1b[48;2;1;2;3m  \x1b[0m\n")
}

func TestPrintITerm(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4)), ModeITerm, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033]1337;File=name=") || !strings.Contains(buf.String(), "width=4px;height=4px") {
		t.Errorf("unexpected iterm output %q", buf.String())
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"24bit", "256", "nocolor", "iterm", "rasterm"} {
		m, err := ParseMode(s)
		if err != nil {
			t.Fatalf("ParseMode(%q) failed: %v", s, err)
		}
		ttesting.AssertEqualString(t, s, m.String(), s)
	}
	if _, err := ParseMode("sixel"); err == nil {
		t.Error("ParseMode(sixel) succeeded")
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	small := Thumbnail(img, 50, 50)
	if sz := small.Bounds().Size(); sz.X > 50 || sz.Y > 50 {
		t.Errorf("thumbnail is %v; want within 50x50", sz)
	}
	if same := Thumbnail(img, 400, 400); same != image.Image(img) {
		t.Error("Thumbnail resized an image that already fits")
	}
}
