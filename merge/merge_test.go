package merge

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/imagefile"
	"badc0de.net/pkg/go-spritesheet/seqname"
	"badc0de.net/pkg/go-spritesheet/ttesting"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

var (
	red   = color.NRGBA{0xFF, 0, 0, 0xFF}
	green = color.NRGBA{0, 0xFF, 0, 0xFF}
	blue  = color.NRGBA{0, 0, 0xFF, 0xFF}
)

// tileDir holds three differently sized tiles, written out of order.
func tileDir(t *testing.T) string {
	dir := t.TempDir()
	writePNG(t, dir, "tile003.png", 20, 10, blue)
	writePNG(t, dir, "tile001.png", 10, 10, red)
	writePNG(t, dir, "tile002.png", 10, 20, green)
	return dir
}

func TestRun(t *testing.T) {
	dir := tileDir(t)

	var progress []string
	res, err := Run(dir, Options{
		Progress: func(i, n int, path string) {
			progress = append(progress, filepath.Base(path))
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ttesting.AssertEqualString(t, "output", res.Output, filepath.Join(dir, "tile.png"))
	ttesting.AssertEqualInt(t, "cell width", res.Plan.Cell.X, 20)
	ttesting.AssertEqualInt(t, "cell height", res.Plan.Cell.Y, 20)
	ttesting.AssertEqualInt(t, "columns", res.Plan.Shape.Columns, 2)
	ttesting.AssertEqualInt(t, "rows", res.Plan.Shape.Rows, 3)
	ttesting.AssertEqualString(t, "no index", res.Index, "")

	want := []string{"tile001.png", "tile002.png", "tile003.png"}
	ttesting.AssertEqualInt(t, "progress calls", len(progress), len(want))
	for i := range progress {
		ttesting.AssertEqualString(t, "progress order", progress[i], want[i])
	}

	img, err := imagefile.Decode(res.Output)
	if err != nil {
		t.Fatalf("decoding sheet: %v", err)
	}
	ttesting.AssertEqualRect(t, "sheet bounds", img.Bounds(), image.Rect(0, 0, 40, 60))
	ttesting.AssertColorAt(t, "tile001", img, 0, 0, red)
	ttesting.AssertColorAt(t, "tile002", img, 20, 19, green)
	ttesting.AssertColorAt(t, "tile003", img, 19, 20, blue)
	ttesting.AssertColorAt(t, "empty part of tile001's cell", img, 15, 15, color.Transparent)
}

func TestRunWritesIndex(t *testing.T) {
	dir := tileDir(t)
	res, err := Run(dir, Options{WriteIndex: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	ttesting.AssertEqualString(t, "index path", res.Index, filepath.Join(dir, "tile.json"))

	b, err := os.ReadFile(res.Index)
	if err != nil {
		t.Fatal(err)
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		t.Fatalf("index is not valid json: %v", err)
	}
	ttesting.AssertEqualString(t, "image", idx.Image, "tile.png")
	ttesting.AssertEqualInt(t, "frames", len(idx.Frames), 3)
	if len(idx.Frames) == 3 {
		ttesting.AssertEqualString(t, "third frame", idx.Frames[2].Path, "tile003.png")
		ttesting.AssertEqualInt(t, "third frame y", idx.Frames[2].Y, 20)
	}
}

func TestRunNoEligibleImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(dir, Options{})
	if errors.Cause(err) != ErrNoEligibleImages {
		t.Fatalf("Run = %v; want ErrNoEligibleImages", err)
	}
	assertNoSheet(t, dir, 1)
}

func TestRunNamingFormat(t *testing.T) {
	for _, first := range []string{"a1b002.png", "hero.png", "007.png"} {
		t.Run(first, func(t *testing.T) {
			dir := t.TempDir()
			writePNG(t, dir, first, 2, 2, red)
			writePNG(t, dir, "zzz001.png", 2, 2, red)

			_, err := Run(dir, Options{})
			if !errors.Is(err, ErrNamingFormat) {
				t.Fatalf("Run = %v; want ErrNamingFormat", err)
			}
			if !strings.HasPrefix(err.Error(), ErrNamingFormat.Error()) {
				t.Errorf("error %q does not start with %q", err, ErrNamingFormat)
			}
			var ne *NamingFormatError
			if !errors.As(err, &ne) {
				t.Fatalf("Run = %v; want *NamingFormatError", err)
			}
			ttesting.AssertEqualString(t, "offending file", ne.Path, filepath.Join(dir, first))
			assertNoSheet(t, dir, 2)
		})
	}
}

func TestRunAgainSkipsSheet(t *testing.T) {
	dir := tileDir(t)
	first, err := Run(dir, Options{})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	// tile.png sorts before tile001.png and would otherwise name the series.
	if _, err := NewPlan(dir); !errors.Is(err, ErrNamingFormat) {
		t.Errorf("NewPlan with the sheet present = %v; want ErrNamingFormat", err)
	}

	second, err := Run(dir, Options{SkipSheet: true})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	ttesting.AssertEqualString(t, "output", second.Output, first.Output)
	ttesting.AssertEqualInt(t, "sources", len(second.Plan.Sources), 3)
	ttesting.AssertEqualInt(t, "columns", second.Plan.Shape.Columns, first.Plan.Shape.Columns)
	ttesting.AssertEqualInt(t, "rows", second.Plan.Shape.Rows, first.Plan.Shape.Rows)
	for _, src := range second.Plan.Sources {
		if filepath.Base(src.Path) == "tile.png" {
			t.Errorf("previous sheet %q taken as a frame", src.Path)
		}
	}
}

func TestSeriesWarnings(t *testing.T) {
	first := seqname.Name{Prefix: "hero", Digits: "1", Ext: ".png"}
	for _, tc := range []struct {
		name string
		rest []string
		want int
	}{
		{"in order", []string{"hero2.png", "hero3.png"}, 0},
		{"padded", []string{"hero02.png", "hero10.png"}, 0},
		{"unpadded past nine", []string{"hero10.png", "hero2.png"}, 1},
		{"repeated number", []string{"hero01.png"}, 1},
		{"other prefix", []string{"villain2.png"}, 1},
		{"other extension", []string{"hero2.jpg"}, 1},
		{"not a series name", []string{"notes.png"}, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := seriesWarnings(first, tc.rest)
			if len(got) != tc.want {
				t.Errorf("seriesWarnings(%v) = %q; want %d warnings", tc.rest, got, tc.want)
			}
		})
	}
}

func TestRunDecodeError(t *testing.T) {
	dir := tileDir(t)
	if err := os.WriteFile(filepath.Join(dir, "tile004.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(dir, Options{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Run = %v; want *DecodeError", err)
	}
	ttesting.AssertEqualString(t, "failing path", de.Path, filepath.Join(dir, "tile004.png"))
	assertNoSheet(t, dir, 4)
}

func TestRunDecodeErrorWhileRendering(t *testing.T) {
	dir := tileDir(t)
	calls := 0
	failing := loaderFunc(func(path string) (image.Image, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("disk on fire")
		}
		return imagefile.Decode(path)
	})

	_, err := Run(dir, Options{Loader: failing})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Run = %v; want *DecodeError", err)
	}
	ttesting.AssertEqualString(t, "failing path", de.Path, filepath.Join(dir, "tile002.png"))
	assertNoSheet(t, dir, 3)
}

func TestRunWriteError(t *testing.T) {
	dir := tileDir(t)
	// A directory in the sheet's place makes the final rename fail.
	if err := os.Mkdir(filepath.Join(dir, "tile.png"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tile.png", "keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(dir, Options{})
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Run = %v; want *WriteError", err)
	}
	ttesting.AssertEqualString(t, "failing path", we.Path, filepath.Join(dir, "tile.png"))
}

func TestPlanIsDeterministic(t *testing.T) {
	dir := tileDir(t)
	res, err := Run(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(res.Output); err != nil {
		t.Fatal(err)
	}

	p, err := NewPlan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Shape != res.Plan.Shape || p.Cell != res.Plan.Cell || p.Output != res.Plan.Output {
		t.Errorf("second plan %+v differs from first %+v", p, res.Plan)
	}
	for i := range p.Sources {
		if p.Sources[i] != res.Plan.Sources[i] {
			t.Errorf("source %d: %+v; first run had %+v", i, p.Sources[i], res.Plan.Sources[i])
		}
	}
}

func TestPlanSize(t *testing.T) {
	p, err := NewPlan(tileDir(t))
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "width", p.Size().X, 40)
	ttesting.AssertEqualInt(t, "height", p.Size().Y, 60)
}

type loaderFunc func(string) (image.Image, error)

func (f loaderFunc) Load(path string) (image.Image, error) { return f(path) }

// assertNoSheet checks that dir still holds only the n files the test put there.
func assertNoSheet(t *testing.T, dir string, n int) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v; want only the %d source files", names, n)
	}
}
