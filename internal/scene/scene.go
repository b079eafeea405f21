// Package scene composes the fixed illustration drawn every frame: three
// background rectangles, an animated grid, and two foreground rectangles.
package scene

import "softraster/internal/raster"

// Counter is the per-frame animation counter. It wraps on overflow.
type Counter uint32

// Grid parameters.
const (
	GridSpacing = 32
	GridPeriod  = 32
)

// Palette used by the scene.
const (
	ClearColor raster.Color = 0x000000FF
	GridColor  raster.Color = 0x808080FF

	SkyBlue    raster.Color = 0x5fcde4ff
	Periwinkle raster.Color = 0x5b6ee1ff
	DarkGreen  raster.Color = 0x1a5e42ff
	Azure      raster.Color = 0x005ff3ff
	LimeGreen  raster.Color = 0x99e550ff
)

// Rect is a filled rectangle given by its center and size.
type Rect struct {
	CX, CY int
	W, H   int
	Color  raster.Color
}

// Grid is a two-axis line grid through an origin.
type Grid struct {
	X, Y    int
	Spacing int
	Color   raster.Color
}

// Command is one draw call: exactly one of Rect or Grid is set.
type Command struct {
	Rect *Rect
	Grid *Grid
}

// Background returns the rectangles drawn behind the grid, as fractions of w x h.
func Background(w, h int) [3]Rect {
	return [3]Rect{
		{CX: w / 2, CY: h * 7 / 16, W: w * 3 / 4, H: h / 16, Color: SkyBlue},
		{CX: w * 5 / 16, CY: h * 7 / 16, W: w * 1 / 8, H: h * 17 / 32, Color: Periwinkle},
		{CX: w * 8 / 16, CY: h * 11 / 16, W: w * 15 / 16, H: h * 7 / 32, Color: DarkGreen},
	}
}

// Foreground returns the rectangles drawn on top of the grid.
func Foreground(w, h int) [2]Rect {
	return [2]Rect{
		{CX: w * 11 / 16, CY: h * 3 / 16, W: w * 7 / 16, H: h * 5 / 16, Color: Azure},
		{CX: w * 9 / 16, CY: h * 13 / 16, W: w * 7 / 16, H: h * 5 / 16, Color: LimeGreen},
	}
}

// GridPhase returns the grid origin for counter n. Both axes derive from the
// buffer width.
func GridPhase(w int, n Counter) (x, y int) {
	x = w/2 + int((n/2)%GridPeriod)
	y = w/2 + int(n%GridPeriod)
	return x, y
}

// Commands lists the draw calls for one frame in draw order.
func Commands(w, h int, n Counter) []Command {
	cmds := make([]Command, 0, 6)
	for _, r := range Background(w, h) {
		cmds = append(cmds, Command{Rect: &r})
	}
	gx, gy := GridPhase(w, n)
	cmds = append(cmds, Command{Grid: &Grid{X: gx, Y: gy, Spacing: GridSpacing, Color: GridColor}})
	for _, r := range Foreground(w, h) {
		cmds = append(cmds, Command{Rect: &r})
	}
	return cmds
}

// Render clears buf and draws the frame for counter n without advancing it.
func Render(buf *raster.PixelBuffer, n Counter) {
	buf.Clear(ClearColor)
	for _, cmd := range Commands(buf.Width(), buf.Height(), n) {
		switch {
		case cmd.Rect != nil:
			r := cmd.Rect
			raster.DrawRectangle(buf, r.CX, r.CY, r.W, r.H, r.Color)
		case cmd.Grid != nil:
			g := cmd.Grid
			raster.DrawGrid(buf, g.X, g.Y, g.Spacing, g.Color)
		}
	}
}

// Compose renders the frame for n into buf and returns the next counter value.
func Compose(buf *raster.PixelBuffer, n Counter) Counter {
	Render(buf, n)
	return n + 1
}
