// Package seqname parses the file names of an image series.
//
// A series file is named <prefix><digits><ext>, for example hero007.png. The
// prefix is a non-empty run of non-digit characters, the digits are the frame's
// sequence number and the extension is .png or .jpg. The prefix and extension
// together name the sprite sheet built from the series (hero.png).
package seqname

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoMatch is returned when a file name does not follow the series naming
// convention.
var ErrNoMatch = errors.New("name does not match <name><number>.png or <name><number>.jpg")

// Extensions lists the accepted extensions, lowercase, with the leading dot.
var Extensions = []string{".png", ".jpg"}

// Name is a file name of a series member split into its parts.
type Name struct {
	Prefix string // "hero"
	Digits string // "007"
	Ext    string // ".png", as written in the file name
}

// SheetName returns the file name of the sheet for the series.
func (n Name) SheetName() string {
	return n.Prefix + n.Ext
}

// Sequence returns the numeric value of the digit run.
func (n Name) Sequence() (int, error) {
	v, err := strconv.Atoi(n.Digits)
	if err != nil {
		return 0, errors.Wrapf(err, "sequence number of %q", n.Prefix+n.Digits+n.Ext)
	}
	return v, nil
}

// Parse splits the base name of filename into prefix, digits and extension.
//
// The extension is matched case-insensitively. Any directory part of filename
// is ignored.
func Parse(filename string) (Name, error) {
	base := filepath.Base(filename)

	ext := matchExt(base)
	if ext == "" {
		return Name{}, errors.Wrapf(ErrNoMatch, "%q: no .png or .jpg extension", base)
	}
	stem := base[:len(base)-len(ext)]

	i := len(stem)
	for i > 0 && isDigit(stem[i-1]) {
		i--
	}
	if i == len(stem) {
		return Name{}, errors.Wrapf(ErrNoMatch, "%q: no sequence number before extension", base)
	}
	if i == 0 {
		return Name{}, errors.Wrapf(ErrNoMatch, "%q: empty name before sequence number", base)
	}
	prefix := stem[:i]
	if strings.IndexFunc(prefix, isDigitRune) >= 0 {
		return Name{}, errors.Wrapf(ErrNoMatch, "%q: name %q must not contain digits", base, prefix)
	}

	return Name{
		Prefix: prefix,
		Digits: stem[i:],
		Ext:    ext,
	}, nil
}

// HasExtension reports whether filename ends in one of Extensions, ignoring case.
func HasExtension(filename string) bool {
	return matchExt(filename) != ""
}

// matchExt returns the suffix of s that is one of Extensions, in the case it
// was written, or an empty string.
func matchExt(s string) string {
	for _, ext := range Extensions {
		if len(s) < len(ext) {
			continue
		}
		if tail := s[len(s)-len(ext):]; strings.EqualFold(tail, ext) {
			return tail
		}
	}
	return ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}
