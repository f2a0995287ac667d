package device

import (
	"fmt"
	"image"
	"sync"
	"time"
)

// PointerCall is one recorded interaction with a FakePointer
type PointerCall struct {
	Op     string
	X, Y   int
	Button Button
	Double bool
	DX, DY int
	At     time.Time
}

// FakePointer records every call instead of touching the host
type FakePointer struct {
	mu    sync.Mutex
	x, y  int
	calls []PointerCall
	err   error
}

// NewFakePointer creates a fake pointer parked at (x, y)
func NewFakePointer(x, y int) *FakePointer {
	return &FakePointer{x: x, y: y}
}

func (f *FakePointer) record(c PointerCall) {
	c.At = time.Now()
	f.calls = append(f.calls, c)
}

func (f *FakePointer) Position() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y
}

func (f *FakePointer) MoveTo(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
	f.record(PointerCall{Op: "move", X: x, Y: y})
}

// SetError makes subsequent button injections fail with err
func (f *FakePointer) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakePointer) Press(b Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.record(PointerCall{Op: "press", X: f.x, Y: f.y, Button: b})
	return nil
}

func (f *FakePointer) Release(b Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.record(PointerCall{Op: "release", X: f.x, Y: f.y, Button: b})
	return nil
}

func (f *FakePointer) Click(b Button, double bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.record(PointerCall{Op: "click", X: f.x, Y: f.y, Button: b, Double: double})
	return nil
}

func (f *FakePointer) Scroll(dx, dy int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(PointerCall{Op: "scroll", X: f.x, Y: f.y, DX: dx, DY: dy})
}

// Calls returns a copy of the recorded calls
func (f *FakePointer) Calls() []PointerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PointerCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsOf returns recorded calls with the given op
func (f *FakePointer) CallsOf(op string) []PointerCall {
	var out []PointerCall
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// FakeScreen serves a fixed frame
type FakeScreen struct {
	mu       sync.Mutex
	frame    image.Image
	err      error
	captures int
}

// NewFakeScreen creates a fake screen showing frame
func NewFakeScreen(frame image.Image) *FakeScreen {
	return &FakeScreen{frame: frame}
}

// SetFrame swaps the displayed frame
func (f *FakeScreen) SetFrame(frame image.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = frame
}

// SetError makes subsequent captures fail
func (f *FakeScreen) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Captures reports how many captures have been taken
func (f *FakeScreen) Captures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captures
}

func (f *FakeScreen) Capture() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captures++
	if f.err != nil {
		return nil, f.err
	}
	return f.frame, nil
}

func (f *FakeScreen) CaptureRegion(r image.Rectangle) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captures++
	if f.err != nil {
		return nil, f.err
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	si, ok := f.frame.(subImager)
	if !ok {
		return nil, fmt.Errorf("frame type %T does not support regions", f.frame)
	}
	if !r.In(f.frame.Bounds()) {
		return nil, fmt.Errorf("region %v outside screen %v", r, f.frame.Bounds())
	}
	return si.SubImage(r), nil
}

// FakeEvents is an EventSource fed by tests through Send
type FakeEvents struct {
	mu      sync.Mutex
	ch      chan Event
	started bool
	stopped bool
	err     error
}

// NewFakeEvents creates a fake event source with a buffered stream
func NewFakeEvents() *FakeEvents {
	return &FakeEvents{ch: make(chan Event, 256)}
}

// FailStart makes Start return err
func (f *FakeEvents) FailStart(err error) {
	f.err = err
}

func (f *FakeEvents) Start() (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.started = true
	return f.ch, nil
}

func (f *FakeEvents) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// Stopped reports whether Stop was called
func (f *FakeEvents) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Send pushes an event onto the stream, stamping When if unset
func (f *FakeEvents) Send(ev Event) {
	if ev.When.IsZero() {
		ev.When = time.Now()
	}
	f.ch <- ev
}

// Close ends the stream
func (f *FakeEvents) Close() {
	close(f.ch)
}
