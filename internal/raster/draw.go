package raster

// Canvas is anything the primitives can draw into. SetPixel must clip.
type Canvas interface {
	Width() int
	Height() int
	SetPixel(x, y int, c Color)
}

// DrawRectangle fills the w x h box whose top-left corner is
// (cx - w/2, cy - h/2). Portions outside the canvas are clipped.
func DrawRectangle(cv Canvas, cx, cy, w, h int, c Color) {
	top := cy - h/2
	left := cx - w/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cv.SetPixel(left+x, top+y, c)
		}
	}
}

// DrawGrid draws 1px lines every spacing pixels through (ox, oy), vertical
// lines spanning the full height and horizontal lines the full width. The
// origin may lie outside the canvas.
func DrawGrid(cv Canvas, ox, oy, spacing int, c Color) {
	if spacing <= 0 {
		return
	}
	w, h := cv.Width(), cv.Height()

	// Vertical lines, right of the origin then left of it
	for x := ox; x < w; x += spacing {
		vline(cv, x, h, c)
	}
	for x := ox - spacing; x >= 0; x -= spacing {
		vline(cv, x, h, c)
	}

	// Horizontal lines, below the origin then above it
	for y := oy; y < h; y += spacing {
		hline(cv, y, w, c)
	}
	for y := oy - spacing; y >= 0; y -= spacing {
		hline(cv, y, w, c)
	}
}

func vline(cv Canvas, x, h int, c Color) {
	for y := 0; y < h; y++ {
		cv.SetPixel(x, y, c)
	}
}

func hline(cv Canvas, y, w int, c Color) {
	for x := 0; x < w; x++ {
		cv.SetPixel(x, y, c)
	}
}
