package sshd

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"

	"softraster/internal/display"
	"softraster/internal/frameloop"
	"softraster/internal/raster"
)

const inputQueueSize = 256

// ErrNoPTY is returned for sessions opened without a terminal.
var ErrNoPTY = errors.New("sshd: PTY required")

// Session adapts one SSH session into a display and input source.
type Session struct {
	sess     ssh.Session
	out      *termenv.Output
	renderer *Renderer
	events   chan frameloop.Event

	mu         sync.Mutex
	cols, rows int
}

var (
	_ frameloop.Display = (*Session)(nil)
	_ frameloop.Input   = (*Session)(nil)
)

// NewSession switches the client terminal to the alternate screen and starts
// reading input and window changes.
func NewSession(sess ssh.Session) (*Session, error) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		return nil, ErrNoPTY
	}

	out := termenv.NewOutput(sess, termenv.WithProfile(termenv.TrueColor))
	s := &Session{
		sess:     sess,
		out:      out,
		renderer: NewRenderer(out.Profile, ptyReq.Window.Width, ptyReq.Window.Height),
		events:   make(chan frameloop.Event, inputQueueSize),
		cols:     ptyReq.Window.Width,
		rows:     ptyReq.Window.Height,
	}

	out.AltScreen()
	out.HideCursor()
	out.ClearScreen()

	go s.readInput()
	go s.watchWindow(winCh)
	return s, nil
}

func (s *Session) readInput() {
	defer close(s.events)
	buf := make([]byte, 64)
	for {
		n, err := s.sess.Read(buf)
		for _, ev := range parseInput(buf[:n]) {
			select {
			case s.events <- ev:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) watchWindow(winCh <-chan ssh.Window) {
	for win := range winCh {
		s.mu.Lock()
		s.cols = win.Width
		s.rows = win.Height
		s.mu.Unlock()
	}
}

// Size returns the pixel resolution of the client terminal.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return display.PixelSize(s.cols, s.rows)
}

// Present sends the changed cells of the frame to the client.
func (s *Session) Present(pixels []raster.Color, width, height int) error {
	if len(pixels) < width*height {
		return fmt.Errorf("sshd: frame has %d pixels, want %d", len(pixels), width*height)
	}

	s.mu.Lock()
	cols, rows := s.cols, s.rows
	s.mu.Unlock()
	if rc, rr := s.renderer.Size(); rc != cols || rr != rows {
		s.renderer.Resize(cols, rows)
	}

	output := s.renderer.Render(pixels, width, height)
	if output == "" {
		return nil
	}
	if _, err := io.WriteString(s.sess, output+termenv.CSI+termenv.ResetSeq+"m"); err != nil {
		return fmt.Errorf("sshd: write frame: %w", err)
	}
	return nil
}

// Poll returns the next queued keypress without blocking. A closed session
// reads as Quit.
func (s *Session) Poll() frameloop.Event {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return frameloop.QuitEvent
		}
		return ev
	default:
		return frameloop.Event{}
	}
}

// Close restores the client terminal. The SSH session itself is closed by
// the server when the handler returns.
func (s *Session) Close() error {
	s.out.ShowCursor()
	s.out.ExitAltScreen()
	return nil
}
