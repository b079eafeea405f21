package display

import (
	"image"

	"softraster/internal/raster"
)

// UpperHalfBlock shows the top pixel as foreground and the bottom one as background.
const UpperHalfBlock = '▀'

// Cell is one terminal character covering two vertically stacked pixels.
type Cell struct {
	Top    raster.Color
	Bottom raster.Color
}

// CellSize returns the terminal grid needed for a w x h pixel image.
func CellSize(w, h int) (cols, rows int) {
	return w, (h + 1) / 2
}

// PixelSize returns the pixel resolution of a cols x rows terminal.
func PixelSize(cols, rows int) (w, h int) {
	return cols, rows * 2
}

// Cells folds img into half-block cells in row-major order, reusing dst.
// An odd last pixel row is paired with black.
func Cells(dst []Cell, img *image.RGBA) []Cell {
	b := img.Rect
	cols, rows := CellSize(b.Dx(), b.Dy())
	n := cols * rows
	if cap(dst) < n {
		dst = make([]Cell, n)
	}
	dst = dst[:n]

	for row := 0; row < rows; row++ {
		y := b.Min.Y + row*2
		for x := 0; x < cols; x++ {
			c := Cell{Top: pixelAt(img, b.Min.X+x, y), Bottom: raster.Black}
			if y+1 < b.Max.Y {
				c.Bottom = pixelAt(img, b.Min.X+x, y+1)
			}
			dst[row*cols+x] = c
		}
	}
	return dst
}

func pixelAt(img *image.RGBA, x, y int) raster.Color {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return raster.RGBA(p[0], p[1], p[2], p[3])
}
