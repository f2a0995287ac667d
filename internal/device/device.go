// Package device defines the host input and screen primitives the automation
// engine drives, along with in-memory fakes used by tests.
package device

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"
)

// Button identifies a pointer button
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// String returns the wire name of the button
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ParseButton accepts "left", "right", "middle" and the "Button.left" spelling
func ParseButton(raw string) (Button, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "button.")
	switch name {
	case "left", "":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	default:
		return ButtonLeft, fmt.Errorf("unknown mouse button %q", raw)
	}
}

// Pointer reads and drives the host pointer. Button injection reports
// failures from the host.
type Pointer interface {
	Position() (x, y int)
	MoveTo(x, y int)
	Press(b Button) error
	Release(b Button) error
	Click(b Button, double bool) error
	Scroll(dx, dy int)
}

// Screen captures the host display
type Screen interface {
	Capture() (image.Image, error)
	CaptureRegion(r image.Rectangle) (image.Image, error)
}

// EventKind classifies a host input event
type EventKind int

const (
	EventMove EventKind = iota
	EventButtonDown
	EventButtonUp
	EventScroll
	EventKeyDown
	EventKeyUp
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventButtonDown:
		return "button_down"
	case EventButtonUp:
		return "button_up"
	case EventScroll:
		return "scroll"
	case EventKeyDown:
		return "key_down"
	case EventKeyUp:
		return "key_up"
	default:
		return "unknown"
	}
}

// Event is a single observed host input event. Key holds a lowercase key name
// ("ctrl", "f1", "a") for keyboard events.
type Event struct {
	Kind   EventKind
	When   time.Time
	X, Y   int
	Button Button
	DX, DY int
	Key    string
}

// EventSource delivers the global input event stream
type EventSource interface {
	Start() (<-chan Event, error)
	Stop()
}

// Devices is the set of handles the engine drives
type Devices struct {
	Pointer Pointer
	Screen  Screen
	Events  EventSource
}

// MoveSmooth glides the pointer from its current position to (x, y) in steps
// spread evenly across d, landing exactly on the target
func MoveSmooth(ctx context.Context, p Pointer, x, y, steps int, d time.Duration) error {
	if steps < 1 {
		steps = 1
	}
	sx, sy := p.Position()
	pause := d / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		nx := sx + (x-sx)*i/steps
		ny := sy + (y-sy)*i/steps
		p.MoveTo(nx, ny)

		if i < steps && pause > 0 {
			timer := time.NewTimer(pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}
