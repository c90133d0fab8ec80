package display

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/vm"
)

var _ vm.Display = (*Recorder)(nil)

// EventKind is the type of a recorded display call.
type EventKind uint8

// Display call kinds.
const (
	SetPixelEvent EventKind = iota
	ClearEvent
	PresentEvent
)

func (k EventKind) String() string {
	switch k {
	case SetPixelEvent:
		return "set"
	case ClearEvent:
		return "clear"
	case PresentEvent:
		return "present"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event is a single recorded display call. X, Y and Value are only set for
// SetPixelEvent.
type Event struct {
	Kind  EventKind
	X     uint8
	Y     uint8
	Value uint8
}

func (e Event) String() string {
	if e.Kind == SetPixelEvent {
		return fmt.Sprintf("set %d,%d=%d", e.X, e.Y, e.Value)
	}
	return e.Kind.String()
}

// Recorder is a display that records every call in order.
type Recorder struct {
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetPixel implements vm.Display.
func (r *Recorder) SetPixel(x, y, value uint8) {
	r.events = append(r.events, Event{Kind: SetPixelEvent, X: x, Y: y, Value: value})
}

// Clear implements vm.Display.
func (r *Recorder) Clear() {
	r.events = append(r.events, Event{Kind: ClearEvent})
}

// Present implements vm.Display.
func (r *Recorder) Present() {
	r.events = append(r.events, Event{Kind: PresentEvent})
}

// Events returns all recorded calls.
func (r *Recorder) Events() []Event {
	return r.events
}

// Count returns the number of recorded calls of the given kind.
func (r *Recorder) Count(kind EventKind) int {
	var count int
	for _, e := range r.events {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}
