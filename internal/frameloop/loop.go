// Package frameloop drives the scene once per tick and hands each frame to
// the display. The loop is single-threaded: poll input, compose, present,
// then sleep for a fixed interval.
package frameloop

import (
	"fmt"
	"log/slog"
	"time"

	"softraster/internal/logging"
	"softraster/internal/raster"
	"softraster/internal/scene"
)

// DefaultInterval is the per-frame delay for a 60 Hz target, truncated to
// whole milliseconds (1000/60 = 16 ms).
const DefaultInterval = (1000 / 60) * time.Millisecond

// State is the loop lifecycle state.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Stats summarizes a loop run.
type Stats struct {
	Frames  uint64
	Counter scene.Counter
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval overrides the per-frame delay.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) { l.interval = d }
}

// WithTimer overrides the sleep implementation.
func WithTimer(t Timer) Option {
	return func(l *Loop) { l.timer = t }
}

// WithMaxFrames stops the loop after n frames. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(l *Loop) { l.maxFrames = n }
}

// WithLogger sets the loop logger. Defaults to logging.Logger().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// Loop owns the frame buffer and the animation counter.
type Loop struct {
	display   Display
	input     Input
	timer     Timer
	interval  time.Duration
	maxFrames uint64
	log       *slog.Logger

	composer *scene.Composer
	state    State
	frames   uint64
}

// New allocates a buffer sized to the display resolution. The caller keeps
// ownership of display and must close it if New fails.
func New(display Display, input Input, opts ...Option) (*Loop, error) {
	l := &Loop{
		display:  display,
		input:    input,
		timer:    SystemTimer{},
		interval: DefaultInterval,
		state:    Running,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logging.Logger()
	}

	w, h := display.Size()
	buf, err := raster.New(w, h)
	if err != nil {
		return nil, fmt.Errorf("frameloop: create %dx%d frame buffer: %w", w, h, err)
	}
	l.composer = scene.NewComposer(buf)
	return l, nil
}

// Run loops until an input stop signal, the frame limit, or a present error.
// A stop observed during an iteration lets that frame finish. The buffer is
// released on return.
func (l *Loop) Run() error {
	buf := l.composer.Buffer()
	defer buf.Release()

	l.log.Info("frame loop started",
		"width", buf.Width(), "height", buf.Height(), "interval", l.interval)

	for l.state == Running {
		l.pollInput()

		l.composer.Step()
		if err := l.display.Present(buf.Pixels(), buf.Width(), buf.Height()); err != nil {
			l.state = Stopped
			return fmt.Errorf("frameloop: present frame %d: %w", l.frames, err)
		}
		l.frames++
		l.log.Debug("frame presented", "frame", l.frames, "counter", l.composer.Counter())

		if l.maxFrames > 0 && l.frames >= l.maxFrames {
			l.stop("frame limit reached")
		}

		l.timer.Sleep(l.interval)
	}

	l.log.Info("frame loop stopped", "frames", l.frames)
	return nil
}

func (l *Loop) pollInput() {
	if l.input == nil {
		return
	}
	ev := l.input.Poll()
	if ev.Stops() {
		l.stop(ev.Kind.String())
	}
}

func (l *Loop) stop(reason string) {
	if l.state == Stopped {
		return
	}
	l.state = Stopped
	l.log.Debug("frame loop stopping", "reason", reason)
}

// State returns the current lifecycle state.
func (l *Loop) State() State { return l.state }

// Stats returns the frames presented so far and the animation counter.
func (l *Loop) Stats() Stats {
	return Stats{Frames: l.frames, Counter: l.composer.Counter()}
}
