// Command spritesheet packs a directory of numbered images into one sprite
// sheet next to them.
//
// Given -dir it merges that directory and exits. Otherwise it keeps asking
// for directories until q is entered.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gookit/color"

	"badc0de.net/pkg/go-spritesheet/imagefile"
	"badc0de.net/pkg/go-spritesheet/merge"
	"badc0de.net/pkg/go-spritesheet/paths"
)

var (
	dir         = flag.String("dir", "", "directory to merge; when empty, directories are read interactively")
	writeIndex  = flag.Bool("index", false, "also write a JSON index of frame positions next to the sheet")
	showPreview = flag.Bool("preview", false, "print the finished sheet on the terminal")
	previewMode = flag.String("preview_mode", "24bit", "preview mode: 24bit, 256, nocolor, iterm or rasterm")
	blanks      = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art in previews")
	banner      = flag.Bool("banner", true, "print the title banner in interactive mode")
)

const title = "Sprite Sheet Generator"

// progressLine rewrites a single console line in place.
type progressLine struct {
	w       io.Writer
	lastLen int
}

func (p *progressLine) update(i, n int, path string) {
	msg := fmt.Sprintf("Merging (%d/%d): %s", i+1, n, path)
	pad := ""
	if p.lastLen > len(msg) {
		pad = strings.Repeat(" ", p.lastLen-len(msg))
	}
	fmt.Fprintf(p.w, "\r%s%s", msg, pad)
	p.lastLen = len(msg)
}

func (p *progressLine) done() {
	if p.lastLen > 0 {
		fmt.Fprint(p.w, "\n")
	}
	p.lastLen = 0
}

// mergeDir runs one merge and reports the outcome on the console.
func mergeDir(d string) error {
	pl := &progressLine{w: os.Stdout}
	res, err := merge.Run(d, merge.Options{
		Progress:   pl.update,
		WriteIndex: *writeIndex,
	})
	pl.done()
	if err != nil {
		color.Red.Println(err.Error())
		return err
	}

	color.Green.Printf("DONE! Final sprite is in: %s\n", res.Output)
	if res.Index != "" {
		color.Green.Printf("Index is in: %s\n", res.Index)
	}
	if *showPreview {
		img, err := imagefile.Decode(res.Output)
		if err != nil {
			glog.Errorf("preview: %v", err)
			return nil
		}
		preview(img)
	}
	return nil
}

// interactive reads directories from in until it is exhausted or q is read.
func interactive(in io.Reader) {
	if *banner {
		figure.NewFigure(title, "", true).Print()
		fmt.Println()
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("Please input the path to the folder with all the images: ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		d := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(d, "q") {
			break
		}
		if !paths.IsDir(d) {
			color.Red.Println("ERROR! Input a valid path.")
			continue
		}

		mergeDir(d) // errors were already shown
		fmt.Println(strings.Repeat("-", 60))
	}
	if err := scanner.Err(); err != nil {
		glog.Errorf("reading input: %v", err)
	}
}

func main() {
	flag.Set("logtostderr", "true")
	flagutil.Parse()

	if *dir != "" {
		if !paths.IsDir(*dir) {
			color.Red.Printf("ERROR! %q is not a directory.\n", *dir)
			os.Exit(2)
		}
		if err := mergeDir(*dir); err != nil {
			os.Exit(1)
		}
		return
	}

	interactive(os.Stdin)
}
