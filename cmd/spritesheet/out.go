package main

import (
	"image"
	"os"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritesheet/imageprint"
)

// preview prints the finished sheet on the terminal, shrunk to fit it.
func preview(img image.Image) {
	mode, err := imageprint.ParseMode(*previewMode)
	if err != nil {
		glog.Errorf("preview: %v", err)
		return
	}

	if termSize, err := GetTermSize(); err == nil {
		if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && (mode == imageprint.ModeRasTerm || mode == imageprint.ModeITerm) {
			// Pixel based output can use the terminal's real resolution.
			img = imageprint.Thumbnail(img, termSize.WSXPixel/2, termSize.WSYPixel/2)
		} else if termSize.WSRow > 2 {
			// Two characters per pixel; keep the prompt on screen.
			img = imageprint.Thumbnail(img, termSize.WSCol/2, termSize.WSRow-2)
		}
	} else {
		glog.V(1).Infof("preview: no terminal size: %v", err)
	}

	if err := imageprint.Print(os.Stdout, img, mode, *blanks); err != nil {
		glog.Errorf("preview: %v", err)
	}
}
