package headless

import "softraster/internal/frameloop"

// ScriptedInput replays a fixed event sequence, one event per poll, then
// reports no events.
type ScriptedInput struct {
	events []frameloop.Event
	next   int
}

// NewScriptedInput returns an input that yields events in order.
func NewScriptedInput(events ...frameloop.Event) *ScriptedInput {
	return &ScriptedInput{events: events}
}

// Poll implements frameloop.Input.
func (s *ScriptedInput) Poll() frameloop.Event {
	if s.next >= len(s.events) {
		return frameloop.Event{}
	}
	ev := s.events[s.next]
	s.next++
	return ev
}
