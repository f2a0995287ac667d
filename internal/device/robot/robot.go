// Package robot backs the device interfaces with robotgo for injection and
// capture, and gohook for the global event stream.
package robot

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/jeeftor/automaton/internal/device"
)

// Pointer drives the host pointer through robotgo
type Pointer struct{}

// NewPointer returns the host pointer
func NewPointer() *Pointer { return &Pointer{} }

func (Pointer) Position() (int, int) {
	return robotgo.Location()
}

func (Pointer) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

func (Pointer) Press(b device.Button) error {
	if err := robotgo.Toggle(b.String()); err != nil {
		return fmt.Errorf("press %s: %w", b, err)
	}
	return nil
}

func (Pointer) Release(b device.Button) error {
	if err := robotgo.Toggle(b.String(), "up"); err != nil {
		return fmt.Errorf("release %s: %w", b, err)
	}
	return nil
}

// Click presses and releases b, twice for a double click, so injection
// failures surface
func (p Pointer) Click(b device.Button, double bool) error {
	n := 1
	if double {
		n = 2
	}
	for i := 0; i < n; i++ {
		if err := p.Press(b); err != nil {
			return err
		}
		if err := p.Release(b); err != nil {
			return err
		}
	}
	return nil
}

// Scroll turns the wheel; positive dy scrolls up, positive dx scrolls right
func (Pointer) Scroll(dx, dy int) {
	robotgo.Scroll(dx, dy)
}

// Screen captures the primary display through robotgo
type Screen struct{}

// NewScreen returns the host screen
func NewScreen() *Screen { return &Screen{} }

func (Screen) Capture() (image.Image, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}

func (Screen) CaptureRegion(r image.Rectangle) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("empty capture region %v", r)
	}
	img, err := robotgo.CaptureImg(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	if err != nil {
		return nil, fmt.Errorf("region capture %v failed: %w", r, err)
	}
	return img, nil
}

// Size reports the primary display dimensions
func (Screen) Size() (int, int) {
	return robotgo.GetScreenSize()
}
