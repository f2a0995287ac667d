package robot

import (
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/logging"
)

const (
	wheelVertical   = 3
	wheelHorizontal = 4
)

var (
	keyNamesOnce sync.Once
	keyNames     map[uint16]string
)

// keyName maps a hook keycode back to its lowercase name, preferring the
// shortest (then alphabetically first) alias when several share a code
func keyName(code uint16) string {
	keyNamesOnce.Do(func() {
		keyNames = make(map[uint16]string, len(hook.Keycode))
		for name, c := range hook.Keycode {
			cur, ok := keyNames[c]
			if !ok || len(name) < len(cur) || (len(name) == len(cur) && name < cur) {
				keyNames[c] = name
			}
		}
	})
	return keyNames[code]
}

func hookButton(b uint16) (device.Button, bool) {
	switch b {
	case 1:
		return device.ButtonLeft, true
	case 2:
		return device.ButtonRight, true
	case 3:
		return device.ButtonMiddle, true
	default:
		return device.ButtonLeft, false
	}
}

// Events streams global mouse and keyboard events from gohook
type Events struct {
	mu      sync.Mutex
	running bool
	done    chan struct{}
	held    map[device.Button]bool
}

// NewEvents creates an idle global event source
func NewEvents() *Events {
	return &Events{held: make(map[device.Button]bool)}
}

// Start installs the global hook and translates its stream
func (e *Events) Start() (<-chan device.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw := hook.Start()
	out := make(chan device.Event, 256)
	e.done = make(chan struct{})
	e.running = true

	go e.pump(raw, out, e.done)
	logging.Debug("Global input hook started")
	return out, nil
}

// Stop removes the global hook; the translated stream closes once drained
func (e *Events) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.done)
	hook.End()
	logging.Debug("Global input hook stopped")
}

func (e *Events) pump(raw chan hook.Event, out chan<- device.Event, done <-chan struct{}) {
	defer close(out)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			translated, keep := e.translate(ev)
			if !keep {
				continue
			}
			select {
			case out <- translated:
			case <-done:
				return
			}
		}
	}
}

// translate converts a hook event; press/release pairs are tracked so that
// the synthetic "clicked" notification never yields a duplicate release
func (e *Events) translate(ev hook.Event) (device.Event, bool) {
	base := device.Event{When: ev.When, X: int(ev.X), Y: int(ev.Y)}

	switch ev.Kind {
	case hook.MouseMove, hook.MouseDrag:
		base.Kind = device.EventMove
		return base, true

	case hook.MouseHold:
		b, ok := hookButton(ev.Button)
		if !ok {
			return base, false
		}
		e.held[b] = true
		base.Kind = device.EventButtonDown
		base.Button = b
		return base, true

	case hook.MouseUp, hook.MouseDown:
		b, ok := hookButton(ev.Button)
		if !ok || !e.held[b] {
			return base, false
		}
		delete(e.held, b)
		base.Kind = device.EventButtonUp
		base.Button = b
		return base, true

	case hook.MouseWheel:
		base.Kind = device.EventScroll
		// hook rotation is positive when scrolling down/right
		switch ev.Direction {
		case wheelHorizontal:
			base.DX = int(ev.Rotation)
		default:
			base.DY = -int(ev.Rotation)
		}
		return base, true

	case hook.KeyHold:
		base.Kind = device.EventKeyDown
		base.Key = keyName(ev.Keycode)
		return base, base.Key != ""

	case hook.KeyUp:
		base.Kind = device.EventKeyUp
		base.Key = keyName(ev.Keycode)
		return base, base.Key != ""
	}
	return base, false
}
