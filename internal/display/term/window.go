// Package term presents frames in the local terminal using tcell. Each
// character cell shows two stacked pixels with an upper half block, so the
// display resolution is columns x (rows*2).
package term

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"softraster/internal/display"
	"softraster/internal/frameloop"
	"softraster/internal/raster"
)

const eventQueueSize = 64

// Window is both the display and the input source of a terminal session.
type Window struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	frame *image.RGBA
	fit   *image.RGBA
	cells []display.Cell
}

var (
	_ frameloop.Display = (*Window)(nil)
	_ frameloop.Input   = (*Window)(nil)
)

// New opens the controlling terminal.
func New() (*Window, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: create screen: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen takes over an uninitialized screen.
func NewWithScreen(s tcell.Screen) (*Window, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("term: init screen: %w", err)
	}
	s.HideCursor()
	s.Clear()

	w := &Window{
		screen: s,
		events: make(chan tcell.Event, eventQueueSize),
		quit:   make(chan struct{}),
	}
	go s.ChannelEvents(w.events, w.quit)
	return w, nil
}

// Size returns the pixel resolution of the terminal.
func (w *Window) Size() (int, int) {
	cols, rows := w.screen.Size()
	return display.PixelSize(cols, rows)
}

// Present stretches the frame to the current terminal size and draws it.
func (w *Window) Present(pixels []raster.Color, width, height int) error {
	if len(pixels) < width*height {
		return fmt.Errorf("term: frame has %d pixels, want %d", len(pixels), width*height)
	}
	w.frame = display.Frame(w.frame, pixels, width, height)

	cols, rows := w.screen.Size()
	pw, ph := display.PixelSize(cols, rows)
	w.fit = display.Fit(w.fit, w.frame, pw, ph)
	w.cells = display.Cells(w.cells, w.fit)

	for i, c := range w.cells {
		style := tcell.StyleDefault.Foreground(tcellColor(c.Top)).Background(tcellColor(c.Bottom))
		w.screen.SetContent(i%cols, i/cols, display.UpperHalfBlock, nil, style)
	}
	w.screen.Show()
	return nil
}

// Poll returns the next queued terminal event without blocking.
func (w *Window) Poll() frameloop.Event {
	select {
	case ev, ok := <-w.events:
		if !ok {
			return frameloop.QuitEvent
		}
		return w.translate(ev)
	default:
		return frameloop.Event{}
	}
}

func (w *Window) translate(ev tcell.Event) frameloop.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return keyEvent(ev)
	case *tcell.EventResize:
		w.screen.Sync()
	}
	return frameloop.Event{}
}

func keyEvent(ev *tcell.EventKey) frameloop.Event {
	switch ev.Key() {
	case tcell.KeyEscape:
		return frameloop.EscapeEvent
	case tcell.KeyCtrlC:
		return frameloop.QuitEvent
	case tcell.KeyRune:
		return frameloop.Event{Kind: frameloop.KeyDown, Key: frameloop.Key(ev.Rune())}
	}
	return frameloop.Event{}
}

// Close restores the terminal.
func (w *Window) Close() error {
	close(w.quit)
	w.screen.Fini()
	return nil
}

func tcellColor(c raster.Color) tcell.Color {
	r, g, b, _ := c.Channels()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
