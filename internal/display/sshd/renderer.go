package sshd

import (
	"fmt"
	"image"
	"strings"

	"github.com/muesli/termenv"

	"softraster/internal/display"
	"softraster/internal/raster"
)

// Renderer turns frames into terminal output for one session. It keeps the
// previous cell grid and only emits cells that changed.
type Renderer struct {
	profile termenv.Profile
	cols    int
	rows    int
	current []display.Cell
	next    []display.Cell
	first   bool

	frame *image.RGBA
	fit   *image.RGBA
	seqs  map[display.Cell]string
}

// NewRenderer creates a renderer for a cols x rows terminal.
func NewRenderer(profile termenv.Profile, cols, rows int) *Renderer {
	r := &Renderer{profile: profile, seqs: make(map[display.Cell]string)}
	r.Resize(cols, rows)
	return r
}

// Resize adjusts the renderer for a new terminal size and forces a full redraw.
func (r *Renderer) Resize(cols, rows int) {
	r.cols = cols
	r.rows = rows
	r.current = nil
	r.next = nil
	r.first = true
}

// Size returns the terminal size the renderer targets.
func (r *Renderer) Size() (cols, rows int) { return r.cols, r.rows }

// Render stretches the frame to the terminal and returns the escape output
// needed to bring the screen up to date. It returns "" when nothing changed.
func (r *Renderer) Render(pixels []raster.Color, width, height int) string {
	r.frame = display.Frame(r.frame, pixels, width, height)
	pw, ph := display.PixelSize(r.cols, r.rows)
	r.fit = display.Fit(r.fit, r.frame, pw, ph)
	r.next = display.Cells(r.next, r.fit)

	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for i, c := range r.next {
		if !r.first && c == r.current[i] {
			continue
		}
		row, col := i/r.cols, i%r.cols
		// Only move the cursor when the write is not contiguous
		if row != lastRow || col != lastCol {
			fmt.Fprintf(&sb, termenv.CSI+termenv.CursorPositionSeq, row+1, col+1)
		}
		sb.WriteString(r.cellSeq(c))
		lastRow = row
		lastCol = col + 1
	}

	r.current, r.next = r.next, r.current
	r.first = false
	return sb.String()
}

// cellSeq returns the styled half block for c. Scenes use few colors, so
// sequences are memoized per cell value.
func (r *Renderer) cellSeq(c display.Cell) string {
	if s, ok := r.seqs[c]; ok {
		return s
	}
	s := r.profile.String(string(display.UpperHalfBlock)).
		Foreground(r.profile.Color(hexColor(c.Top))).
		Background(r.profile.Color(hexColor(c.Bottom))).
		String()
	r.seqs[c] = s
	return s
}

func hexColor(c raster.Color) string {
	red, green, blue, _ := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}
