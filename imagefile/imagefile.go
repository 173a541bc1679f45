// Package imagefile reads and writes the image files a sprite sheet is built
// from and saved to.
//
// PNG and JPEG are supported, matching the extensions accepted for series
// files.
package imagefile

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// JPEGQuality is used when a sheet is saved as JPEG.
var JPEGQuality = 95

// FileMode is given to newly saved files. A file that is overwritten keeps
// its permissions.
var FileMode os.FileMode = 0644

// DecodeConfig reads only as much of the file at path as needed to learn the
// image dimensions. It also returns the format name.
func DecodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", errors.Wrap(err, "opening image")
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", errors.Wrapf(err, "decoding header of %q", path)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", errors.Errorf("image %q has no pixels (%dx%d)", path, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

// Decode reads the whole image at path.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %q", path)
	}
	glog.V(2).Infof("decoded %q: %s %v", path, format, img.Bounds().Size())
	return img, nil
}

// Loader decodes images from the local file system.
type Loader struct{}

// Load implements compositor.Loader.
func (Loader) Load(path string) (image.Image, error) {
	return Decode(path)
}

// ContentType returns the MIME type of the format chosen for ext.
func ContentType(ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	default:
		return "", errors.Errorf("unsupported output format %q", ext)
	}
}

// Encode writes img to w in the format implied by ext (".png", ".jpg" or
// ".jpeg", in any case).
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return errors.Wrap(png.Encode(w, img), "encoding png")
	case ".jpg", ".jpeg":
		return errors.Wrap(jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality}), "encoding jpeg")
	default:
		return errors.Errorf("unsupported output format %q", ext)
	}
}

// Save encodes img into the file at path, choosing the format from the path's
// extension.
//
// The image is first written to a temporary file in the same directory, which
// is renamed over path only after encoding succeeded, so a failure never
// leaves a partial file at path.
//
// The saved file gets FileMode, or the permissions of the file it replaces.
func Save(path string, img image.Image) error {
	ext := filepath.Ext(path)
	if _, err := ContentType(ext); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	mode := FileMode
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting permissions of temporary file")
	}

	if err := Encode(tmp, img, ext); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "renaming to %q", path)
	}
	glog.V(1).Infof("saved %q (%v)", path, img.Bounds().Size())
	return nil
}
