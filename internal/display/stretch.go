// Package display holds helpers shared by the presentation backends:
// unpacking frames into images, stretching them to a window rectangle, and
// folding pixels into half-block terminal cells.
package display

import (
	"image"

	"golang.org/x/image/draw"

	"softraster/internal/raster"
)

// Frame unpacks a row-major w x h frame into dst, reallocating dst when its
// size does not match. The returned image is dst or its replacement.
func Frame(dst *image.RGBA, pixels []raster.Color, w, h int) *image.RGBA {
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	raster.UnpackRGBA(dst.Pix, pixels[:w*h])
	return dst
}

// Stretch scales src to fill dst without interpolation, so pixels stay crisp.
func Stretch(dst, src *image.RGBA) {
	if dst.Rect.Size() == src.Rect.Size() {
		draw.Copy(dst, dst.Rect.Min, src, src.Rect, draw.Src, nil)
		return
	}
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
}

// Fit returns dst resized to w x h (allocating if needed) with src stretched into it.
func Fit(dst, src *image.RGBA, w, h int) *image.RGBA {
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	Stretch(dst, src)
	return dst
}
