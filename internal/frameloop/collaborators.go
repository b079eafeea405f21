package frameloop

import (
	"context"
	"time"

	"softraster/internal/raster"
)

// Display is the windowing/presentation service.
type Display interface {
	// Size reports the display resolution in pixels.
	Size() (width, height int)
	// Present blits a row-major RGBA8888 frame, stretched to the window.
	// pixels is only valid for the duration of the call.
	Present(pixels []raster.Color, width, height int) error
	Close() error
}

// Input is a non-blocking event source.
type Input interface {
	// Poll returns at most one pending event, or an Event of kind None.
	Poll() Event
}

// Timer suspends the calling goroutine.
type Timer interface {
	Sleep(d time.Duration)
}

// EventKind classifies an input event.
type EventKind int

const (
	None EventKind = iota
	Quit
	KeyDown
)

func (k EventKind) String() string {
	switch k {
	case None:
		return "none"
	case Quit:
		return "quit"
	case KeyDown:
		return "keydown"
	}
	return "unknown"
}

// Key identifies a pressed key. Printable keys use their rune.
type Key rune

// KeyEscape is the escape key.
const KeyEscape Key = 0x1b

// Event is one polled input event.
type Event struct {
	Kind EventKind
	Key  Key
}

// QuitEvent and EscapeEvent are the two stop signals.
var (
	QuitEvent   = Event{Kind: Quit}
	EscapeEvent = Event{Kind: KeyDown, Key: KeyEscape}
)

// Stops reports whether the event ends the loop.
func (e Event) Stops() bool {
	return e.Kind == Quit || (e.Kind == KeyDown && e.Key == KeyEscape)
}

// SystemTimer sleeps on the wall clock.
type SystemTimer struct{}

func (SystemTimer) Sleep(d time.Duration) { time.Sleep(d) }

type contextInput struct {
	ctx context.Context
	in  Input
}

// ContextInput wraps in so that a done ctx reads as a Quit event.
func ContextInput(ctx context.Context, in Input) Input {
	return &contextInput{ctx: ctx, in: in}
}

func (c *contextInput) Poll() Event {
	select {
	case <-c.ctx.Done():
		return QuitEvent
	default:
	}
	if c.in == nil {
		return Event{}
	}
	return c.in.Poll()
}
