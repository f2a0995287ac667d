// Package capture saves screen grabs into the capture folder and serves
// thumbnails of what it holds.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nfnt/resize"

	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/matcher"
)

// DefaultName is the base file name used when a capture is not named
const DefaultName = "captured_region"

// Store writes captures into a single folder
type Store struct {
	dir    string
	screen device.Screen
}

// NewStore creates the capture folder if needed
func NewStore(dir string, screen device.Screen) (*Store, error) {
	if err := filesystem.EnsureDirectoryWithLogging(dir, "capture folder"); err != nil {
		return nil, fmt.Errorf("cannot create capture folder: %w", err)
	}
	return &Store{dir: dir, screen: screen}, nil
}

// Dir returns the capture folder
func (s *Store) Dir() string {
	return s.dir
}

// Capture saves the full screen
func (s *Store) Capture(name string) (string, error) {
	img, err := s.screen.Capture()
	if err != nil {
		return "", err
	}
	return s.Save(img, name)
}

// CaptureRegion saves the region starting at (x, y) of size w by h
func (s *Store) CaptureRegion(x, y, w, h int, name string) (string, error) {
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("invalid region size %dx%d", w, h)
	}
	img, err := s.screen.CaptureRegion(image.Rect(x, y, x+w, y+h))
	if err != nil {
		return "", err
	}
	return s.Save(img, name)
}

// Save encodes img as PNG under name, adding _1, _2, ... when taken
func (s *Store) Save(img image.Image, name string) (string, error) {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		name = DefaultName
	}
	path := filesystem.UniquePath(filepath.Join(s.dir, name+".png"))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode capture: %w", err)
	}
	if err := filesystem.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	logging.Captured(path)
	return path, nil
}

// List returns the image files in the capture folder, sorted by name
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read capture folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !filesystem.IsImageFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Thumbnail scales the image at path to fit within size by size, keeping
// its aspect ratio
func Thumbnail(path string, size uint) (image.Image, error) {
	img, err := matcher.LoadTemplate(path)
	if err != nil {
		return nil, err
	}
	return resize.Thumbnail(size, size, img, resize.Lanczos3), nil
}

// ParseRegion parses "x,y,w,h"
func ParseRegion(raw string) (x, y, w, h int, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("region %q must be x,y,w,h", raw)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("region %q: %q is not a number", raw, p)
		}
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("region %q must have a positive width and height", raw)
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
