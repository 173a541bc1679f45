//go:build windows

package imageprint

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

func PrintRasTerm(w io.Writer, img image.Image) error {
	return errors.New("rasterm previews are not supported on windows")
}
