// Package shot is an alternative screen backend built on vova616/screenshot,
// useful where robotgo capture is unavailable.
package shot

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// Screen captures the active display
type Screen struct{}

// NewScreen returns the screenshot-backed screen
func NewScreen() *Screen { return &Screen{} }

func (Screen) Capture() (image.Image, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}

func (Screen) CaptureRegion(r image.Rectangle) (image.Image, error) {
	bounds, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("cannot query screen bounds: %w", err)
	}
	if r.Empty() || !r.In(bounds) {
		return nil, fmt.Errorf("region %v outside screen %v", r, bounds)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("region capture %v failed: %w", r, err)
	}
	return img, nil
}
