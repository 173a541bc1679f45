// Package imageprint previews a sprite sheet on the terminal.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	Mode24Bit   Mode = iota // 24-bit background color escapes
	Mode256                 // gookit/color, degrading to what the terminal supports
	ModeNoColor             // shading characters only
	ModeITerm               // iTerm2 inline image
	ModeRasTerm             // kitty, iTerm2 or sixel, whichever is available
)

var modeNames = map[string]Mode{
	"24bit":   Mode24Bit,
	"256":     Mode256,
	"nocolor": ModeNoColor,
	"iterm":   ModeITerm,
	"rasterm": ModeRasTerm,
}

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return 0, errors.Errorf("unknown preview mode %q (want 24bit, 256, nocolor, iterm or rasterm)", s)
}

func (m Mode) String() string {
	for name, mm := range modeNames {
		if mm == m {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Thumbnail shrinks img to fit within maxW by maxH, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH uint) image.Image {
	sz := img.Bounds().Size()
	if maxW == 0 || maxH == 0 || (uint(sz.X) <= maxW && uint(sz.Y) <= maxH) {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}

// Print writes img to w using mode. With blanks set, cell-based modes paint
// colored blanks instead of shading characters.
func Print(w io.Writer, img image.Image, mode Mode, blanks bool) error {
	switch mode {
	case Mode24Bit:
		printCells(w, img, shade24Bit, blanks)
	case Mode256:
		printCells(w, img, shade256, blanks)
	case ModeNoColor:
		printCells(w, img, shadeNoColor, blanks)
	case ModeITerm:
		return PrintITerm(w, img, "sheet.png")
	case ModeRasTerm:
		return PrintRasTerm(w, img)
	default:
		return errors.Errorf("unknown preview mode %v", mode)
	}
	return nil
}

type shader func(w io.Writer, r, g, b uint8, cell string)

func shade24Bit(w io.Writer, r, g, b uint8, cell string) {
	fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, cell)
}

func shade256(w io.Writer, r, g, b uint8, cell string) {
	fmt.Fprint(w, color.RGB(r, g, b, true).Sprint(cell))
}

func shadeNoColor(w io.Writer, _, _, _ uint8, cell string) {
	fmt.Fprint(w, cell)
}

// cellText returns the two characters drawn for one pixel.
func cellText(r, g, b uint8, blanks bool) string {
	if blanks {
		return "  "
	}
	switch a := (int(r) + int(g) + int(b)) / 3; {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func printCells(w io.Writer, img image.Image, sh shader, blanks bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := ic.NRGBAModel.Convert(img.At(x, y)).(ic.NRGBA)
			if c.A == 0 {
				fmt.Fprint(w, "  ")
				continue
			}
			sh(w, c.R, c.G, c.B, cellText(c.R, c.G, c.B, blanks))
		}
		fmt.Fprint(w, "\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, img image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, img); err != nil {
		return errors.Wrap(err, "encoding preview")
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), img.Bounds().Size().X, img.Bounds().Size().Y, b.String())
	return err
}
