package sshd

import (
	"unicode/utf8"

	"softraster/internal/frameloop"
)

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03
)

// parseInput converts raw terminal bytes into loop events. A lone ESC is the
// escape key; ESC followed by '[' or 'O' starts a control sequence (arrow
// keys and the like), which is consumed and ignored.
func parseInput(data []byte) []frameloop.Event {
	var events []frameloop.Event
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == keyEsc && i+1 < len(data) && (data[i+1] == '[' || data[i+1] == 'O'):
			i = skipSequence(data, i+2)
			continue
		case b == keyEsc:
			events = append(events, frameloop.EscapeEvent)
			i++
			continue
		case b == keyCtrlC:
			events = append(events, frameloop.QuitEvent)
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		events = append(events, frameloop.Event{Kind: frameloop.KeyDown, Key: frameloop.Key(r)})
		i += size
	}
	return events
}

// skipSequence returns the index just past the final byte of a control
// sequence whose parameters start at i.
func skipSequence(data []byte, i int) int {
	for i < len(data) {
		b := data[i]
		i++
		if b >= 0x40 && b <= 0x7e {
			break
		}
	}
	return i
}
