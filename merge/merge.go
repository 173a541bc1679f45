// Package merge builds a sprite sheet out of a directory holding one image
// series.
//
// The directory's png and jpg files are taken in file name order. The first
// one names the series: for hero001.png .. hero012.png the sheet is written
// to hero.png in the same directory. Every image gets a cell as large as the
// largest width and height in the series, and the cells form a near-square
// grid (see package grid).
//
// A merge either writes the whole sheet or nothing at all.
package merge

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/compositor"
	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/imagefile"
	"badc0de.net/pkg/go-spritesheet/paths"
	"badc0de.net/pkg/go-spritesheet/seqname"
)

// Plan holds every layout decision for a sheet. Computing a plan reads only
// image headers.
type Plan struct {
	Dir     string
	Sources []compositor.ImageRef
	Cell    image.Point // largest width and height among Sources
	Shape   grid.Shape
	Name    seqname.Name
	Output  string
}

// NewPlan scans dir and decides the layout and the output path of its sheet.
// Every eligible file is a source, including a sheet left by an earlier merge.
func NewPlan(dir string) (*Plan, error) {
	return newPlan(dir, false)
}

// NewPlanSkippingSheet is like NewPlan, but leaves the series' own sheet out
// of the sources, so a directory can be merged again after its sheet was
// written. The sheet is recognised by its name: the first file named like a
// series member determines it.
func NewPlanSkippingSheet(dir string) (*Plan, error) {
	return newPlan(dir, true)
}

func newPlan(dir string, skipSheet bool) (*Plan, error) {
	files, err := paths.Eligible(dir)
	if err != nil {
		return nil, err
	}
	if skipSheet {
		files = withoutSheet(files)
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoEligibleImages, "%q", dir)
	}

	name, err := seqname.Parse(files[0])
	if err != nil {
		return nil, errors.WithStack(&NamingFormatError{Path: files[0], Err: err})
	}
	for _, w := range seriesWarnings(name, files[1:]) {
		glog.Warning(w)
	}

	refs := make([]compositor.ImageRef, 0, len(files))
	for _, f := range files {
		cfg, _, err := imagefile.DecodeConfig(f)
		if err != nil {
			return nil, &DecodeError{Path: f, Err: err}
		}
		refs = append(refs, compositor.ImageRef{Path: f, Width: cfg.Width, Height: cfg.Height})
	}

	shape, err := grid.Plan(len(refs))
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Dir:     dir,
		Sources: refs,
		Cell:    compositor.BoundingBox(refs),
		Shape:   shape,
		Name:    name,
		Output:  paths.SheetPath(files[0], name),
	}
	glog.V(1).Infof("merge plan for %q: %d images, grid %v, cell %v, output %q", dir, len(refs), p.Shape, p.Cell, p.Output)
	return p, nil
}

// withoutSheet drops the file named like the sheet of the first series
// member in files.
func withoutSheet(files []string) []string {
	var sheet string
	for _, f := range files {
		if n, err := seqname.Parse(f); err == nil {
			sheet = n.SheetName()
			break
		}
	}
	if sheet == "" {
		return files
	}

	kept := make([]string, 0, len(files))
	for _, f := range files {
		if strings.EqualFold(filepath.Base(f), sheet) {
			glog.V(1).Infof("leaving out previous sheet %q", f)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// seriesWarnings describes files that do not share the first file's prefix
// and extension, or whose sequence numbers do not increase. Such files still
// end up on the sheet.
func seriesWarnings(first seqname.Name, rest []string) []string {
	var warnings []string
	prev, err := first.Sequence()
	if err != nil {
		prev = -1
	}
	for _, f := range rest {
		n, err := seqname.Parse(f)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%q is not named like a series member: %v", f, err))
			continue
		}
		if n.Prefix != first.Prefix || !strings.EqualFold(n.Ext, first.Ext) {
			warnings = append(warnings, fmt.Sprintf("%q does not belong to series %q", f, first.SheetName()))
			continue
		}
		seq, err := n.Sequence()
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if prev >= 0 && seq <= prev {
			warnings = append(warnings, fmt.Sprintf("%q is placed after frame %d but has sequence number %d; pad numbers with zeros to keep frames in order", f, prev, seq))
		}
		prev = seq
	}
	return warnings
}

// Size returns the dimensions of the sheet.
func (p *Plan) Size() image.Point {
	return image.Pt(p.Shape.Columns*p.Cell.X, p.Shape.Rows*p.Cell.Y)
}

// Layout returns where each source lands on the sheet.
func (p *Plan) Layout() []compositor.Frame {
	return compositor.Layout(p.Sources, p.Shape, p.Cell)
}

// Render draws the sheet. Decoding failures are reported as *DecodeError.
func (p *Plan) Render(l compositor.Loader, progress func(i, n int, path string)) (*image.NRGBA, error) {
	c := &compositor.Composer{
		Loader: compositor.LoaderFunc(func(path string) (image.Image, error) {
			img, err := l.Load(path)
			if err != nil {
				return nil, &DecodeError{Path: path, Err: err}
			}
			return img, nil
		}),
	}
	if progress != nil {
		c.Progress = func(i, n int, ref compositor.ImageRef) {
			progress(i, n, ref.Path)
		}
	}
	return c.Compose(p.Sources, p.Shape, p.Cell)
}

// Index is the atlas description of a sheet, written as JSON.
type Index struct {
	Image      string             `json:"image"`
	Columns    int                `json:"columns"`
	Rows       int                `json:"rows"`
	CellWidth  int                `json:"cell_width"`
	CellHeight int                `json:"cell_height"`
	Frames     []compositor.Frame `json:"frames"`
}

// Index describes the sheet. Frame paths are file names relative to the
// sheet's directory.
func (p *Plan) Index() *Index {
	frames := p.Layout()
	for i := range frames {
		frames[i].Path = filepath.Base(frames[i].Path)
	}
	return &Index{
		Image:      filepath.Base(p.Output),
		Columns:    p.Shape.Columns,
		Rows:       p.Shape.Rows,
		CellWidth:  p.Cell.X,
		CellHeight: p.Cell.Y,
		Frames:     frames,
	}
}

// IndexPath returns where the JSON index of the sheet is written.
func (p *Plan) IndexPath() string {
	return filepath.Join(filepath.Dir(p.Output), p.Name.Prefix+".json")
}

// Options tune Run.
type Options struct {
	// Loader decodes source images; imagefile.Loader when nil.
	Loader compositor.Loader

	// Progress, if set, is called after each source was drawn.
	Progress func(i, n int, path string)

	// WriteIndex also writes the JSON index next to the sheet.
	WriteIndex bool

	// SkipSheet leaves a sheet written by an earlier merge out of the
	// sources; see NewPlanSkippingSheet.
	SkipSheet bool
}

// Result describes a finished merge.
type Result struct {
	Plan   *Plan
	Output string
	Index  string // empty unless Options.WriteIndex
}

// Run merges the series in dir into its sprite sheet and saves it.
func Run(dir string, opts Options) (*Result, error) {
	p, err := newPlan(dir, opts.SkipSheet)
	if err != nil {
		return nil, err
	}

	l := opts.Loader
	if l == nil {
		l = imagefile.Loader{}
	}
	img, err := p.Render(l, opts.Progress)
	if err != nil {
		return nil, err
	}

	if err := imagefile.Save(p.Output, img); err != nil {
		return nil, &WriteError{Path: p.Output, Err: err}
	}
	res := &Result{Plan: p, Output: p.Output}

	if opts.WriteIndex {
		if err := writeIndex(p.IndexPath(), p.Index()); err != nil {
			return nil, &WriteError{Path: p.IndexPath(), Err: err}
		}
		res.Index = p.IndexPath()
	}

	glog.V(1).Infof("merged %d images from %q into %q", len(p.Sources), dir, p.Output)
	return res, nil
}

func writeIndex(path string, idx *Index) error {
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding index")
	}
	return errors.Wrap(os.WriteFile(path, append(b, '\n'), 0644), "writing index")
}
