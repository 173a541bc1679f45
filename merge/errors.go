package merge

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoEligibleImages is returned when the directory holds no png or jpg files.
	ErrNoEligibleImages = errors.New("no valid images in the provided folder (formats are: jpg or png)")

	// ErrNamingFormat is returned when the first image's name does not follow
	// the series naming convention.
	ErrNamingFormat = errors.New("the images were not in the correct naming format, the correct format is nameXXX.jpg or nameXXX.png; name must not have numbers in it")
)

// NamingFormatError reports the file whose name broke the naming
// convention. It matches ErrNamingFormat with errors.Is.
type NamingFormatError struct {
	Path string
	Err  error
}

func (e *NamingFormatError) Error() string {
	return fmt.Sprintf("%v (%v)", ErrNamingFormat, e.Err)
}

func (e *NamingFormatError) Is(target error) bool { return target == ErrNamingFormat }

func (e *NamingFormatError) Unwrap() error { return e.Err }

// DecodeError reports a source image that could not be read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not read image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError reports a sheet that could not be saved.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not save sprite sheet %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
