//go:build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty terminal, iTerm2 and WezTerm, and in
// sixel capable terminals.
func PrintRasTerm(w io.Writer, img image.Image) error {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, img); err != nil {
			return errors.Wrap(err, "kitty preview")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, img); err != nil {
			return errors.Wrap(err, "iterm preview")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, img.Bounds(), img, image.ZP)

		if err := (rasterm.Settings{}).SixelWriteImage(w, palettedImage); err != nil {
			return errors.Wrap(err, "sixel preview")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	return errors.New("terminal supports neither kitty, iterm nor sixel images")
}
