// Package headless is an off-screen display: frames are stretched into an
// in-memory window image and optionally handed to a snapshot sink.
package headless

import (
	"errors"
	"fmt"
	"image"

	"softraster/internal/display"
	"softraster/internal/frameloop"
	"softraster/internal/raster"
)

// ErrClosed is returned by Present after Close.
var ErrClosed = errors.New("headless: window closed")

// Sink receives copies of presented window images.
type Sink interface {
	Submit(frame uint64, img *image.RGBA) error
}

// Config describes the off-screen window.
type Config struct {
	// Width and Height are the reported display resolution.
	Width  int
	Height int
	// WindowWidth and WindowHeight size the window rectangle frames are
	// stretched into. Zero means the display resolution.
	WindowWidth  int
	WindowHeight int
	// Sink, if set, gets every SnapshotEvery-th frame (frame 0 included).
	Sink          Sink
	SnapshotEvery uint64
}

// Window implements frameloop.Display without any OS surface.
type Window struct {
	cfg      Config
	frame    *image.RGBA
	window   *image.RGBA
	presents uint64
	closed   bool
}

var _ frameloop.Display = (*Window)(nil)

// New validates cfg and creates the window.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("headless: invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		cfg.WindowWidth, cfg.WindowHeight = cfg.Width, cfg.Height
	}
	if cfg.SnapshotEvery == 0 {
		cfg.SnapshotEvery = 1
	}
	return &Window{
		cfg:    cfg,
		window: image.NewRGBA(image.Rect(0, 0, cfg.WindowWidth, cfg.WindowHeight)),
	}, nil
}

// Size returns the display resolution.
func (w *Window) Size() (int, int) { return w.cfg.Width, w.cfg.Height }

// Present stretches the frame over the whole window rectangle.
func (w *Window) Present(pixels []raster.Color, width, height int) error {
	if w.closed {
		return ErrClosed
	}
	if len(pixels) < width*height {
		return fmt.Errorf("headless: frame has %d pixels, want %d", len(pixels), width*height)
	}

	w.frame = display.Frame(w.frame, pixels, width, height)
	display.Stretch(w.window, w.frame)

	n := w.presents
	w.presents++
	if w.cfg.Sink != nil && n%w.cfg.SnapshotEvery == 0 {
		if err := w.cfg.Sink.Submit(n, w.window); err != nil {
			return fmt.Errorf("headless: snapshot frame %d: %w", n, err)
		}
	}
	return nil
}

// Window returns the most recently presented window image. It is reused
// across presents.
func (w *Window) Window() *image.RGBA { return w.window }

// Presents returns the number of frames presented.
func (w *Window) Presents() uint64 { return w.presents }

// Close releases the window images.
func (w *Window) Close() error {
	w.closed = true
	w.frame = nil
	return nil
}
