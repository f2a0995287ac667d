// Package eventlog defines recorded pointer events and their JSON file format.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
)

// Kind is the event discriminator stored in the "type" field
type Kind string

const (
	KindMove   Kind = "move"
	KindClick  Kind = "click"
	KindScroll Kind = "scroll"
)

// ErrMalformed is returned when a log decodes but violates its invariants
var ErrMalformed = errors.New("malformed event log")

// Event is one recorded pointer event. Time is seconds since recording start.
// Button and Pressed apply to clicks, DX and DY to scrolls.
type Event struct {
	Type    Kind
	Time    float64
	X, Y    int
	Button  device.Button
	Pressed bool
	DX, DY  int
}

// Move builds a move event
func Move(t float64, x, y int) Event {
	return Event{Type: KindMove, Time: t, X: x, Y: y}
}

// Click builds a press or release event
func Click(t float64, x, y int, b device.Button, pressed bool) Event {
	return Event{Type: KindClick, Time: t, X: x, Y: y, Button: b, Pressed: pressed}
}

// Scroll builds a scroll event
func Scroll(t float64, x, y, dx, dy int) Event {
	return Event{Type: KindScroll, Time: t, X: x, Y: y, DX: dx, DY: dy}
}

type wireEvent struct {
	Type    Kind    `json:"type"`
	Time    float64 `json:"time"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Button  string  `json:"button,omitempty"`
	Pressed *bool   `json:"pressed,omitempty"`
	DX      *int    `json:"dx,omitempty"`
	DY      *int    `json:"dy,omitempty"`
}

// MarshalJSON writes only the fields that belong to the event's kind
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{Type: e.Type, Time: e.Time, X: e.X, Y: e.Y}
	switch e.Type {
	case KindClick:
		pressed := e.Pressed
		w.Button = e.Button.String()
		w.Pressed = &pressed
	case KindScroll:
		dx, dy := e.DX, e.DY
		w.DX, w.DY = &dx, &dy
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads an event, accepting "Button.left" style button names
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = Event{Type: w.Type, Time: w.Time, X: w.X, Y: w.Y}
	switch w.Type {
	case KindMove:
	case KindClick:
		b, err := device.ParseButton(w.Button)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if w.Pressed == nil {
			return fmt.Errorf("%w: click without pressed flag", ErrMalformed)
		}
		e.Button = b
		e.Pressed = *w.Pressed
	case KindScroll:
		if w.DX != nil {
			e.DX = *w.DX
		}
		if w.DY != nil {
			e.DY = *w.DY
		}
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrMalformed, w.Type)
	}
	return nil
}

// Log is an ordered sequence of events
type Log []Event

// Duration is the timestamp of the final event
func (l Log) Duration() float64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].Time
}

// Validate checks that timestamps are non-negative and non-decreasing
func (l Log) Validate() error {
	prev := 0.0
	for i, ev := range l {
		if ev.Time < 0 {
			return fmt.Errorf("%w: event %d has negative time %g", ErrMalformed, i, ev.Time)
		}
		if ev.Time < prev {
			return fmt.Errorf("%w: event %d time %g precedes %g", ErrMalformed, i, ev.Time, prev)
		}
		prev = ev.Time
	}
	return nil
}

// Encode writes the log as a JSON array
func Encode(w io.Writer, l Log) error {
	if l == nil {
		l = Log{}
	}
	return json.NewEncoder(w).Encode(l)
}

// Decode reads and validates a JSON array of events
func Decode(r io.Reader) (Log, error) {
	var l Log
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to parse event log: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Save writes the log to path atomically, creating directories as needed
func Save(path string, l Log) error {
	if l == nil {
		l = Log{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal event log: %w", err)
	}
	if err := filesystem.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	logging.Debug("Event log written", "path", path, "events", len(l))
	return nil
}

// Load reads a log file written by Save
func Load(path string) (Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("Event log loaded", "path", path, "events", len(l))
	return l, nil
}
