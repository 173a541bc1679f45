// Package paths finds the source images of a sprite sheet and decides where
// the sheet is written.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/seqname"
)

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Eligible returns the paths of regular files directly inside dir whose
// extension is one of seqname.Extensions, in any case.
//
// The result is sorted by file name ignoring case, with the exact file name
// breaking ties, so the order does not depend on how the file system lists
// the directory.
func Eligible(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %q", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !seqname.HasExtension(e.Name()) {
			glog.V(2).Infof("paths.Eligible(%q): skipping %q", dir, e.Name())
			continue
		}
		names = append(names, e.Name())
	}

	sort.SliceStable(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	glog.V(1).Infof("paths.Eligible(%q): %d images", dir, len(paths))
	return paths, nil
}

// SheetPath returns the path of the sheet for the series that first belongs
// to: the sheet lives next to it and is named after the series.
func SheetPath(first string, n seqname.Name) string {
	return filepath.Join(filepath.Dir(first), n.SheetName())
}
