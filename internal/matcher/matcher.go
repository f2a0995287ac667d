// Package matcher locates template images on screen by normalized
// correlation and acts on the matches.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/logging"
)

var (
	// ErrTemplateLoad is returned when a template file cannot be read or decoded
	ErrTemplateLoad = errors.New("could not load template image")
	// ErrInvalidTarget is returned when clicking on a missing match
	ErrInvalidTarget = errors.New("invalid target: no match to click")
	// ErrTemplateTooLarge is returned when the template exceeds the frame
	ErrTemplateTooLarge = errors.New("template larger than screen")
)

// MatchResult is the center of a match and its correlation score
type MatchResult struct {
	CenterX int
	CenterY int
	Score   float64
}

func (m *MatchResult) String() string {
	if m == nil {
		return "none"
	}
	return fmt.Sprintf("(%d, %d) score=%.3f", m.CenterX, m.CenterY, m.Score)
}

// Options tune detection and clicking
type Options struct {
	// Workers bounds parallel correlation rows; zero uses GOMAXPROCS
	Workers int
	// MoveSteps and MoveDuration shape the glide before a click; a zero
	// duration jumps through the steps without pausing
	MoveSteps    int
	MoveDuration time.Duration
}

// Matcher finds templates on a screen and clicks them with a pointer
type Matcher struct {
	screen  device.Screen
	pointer device.Pointer
	opts    Options
	logger  *logging.ContextualLogger
}

// New creates a matcher
func New(screen device.Screen, pointer device.Pointer, opts Options) *Matcher {
	if opts.MoveSteps <= 0 {
		opts.MoveSteps = constants.DefaultMoveSteps
	}
	return &Matcher{
		screen:  screen,
		pointer: pointer,
		opts:    opts,
		logger:  logging.NewContextualLogger("", "matcher"),
	}
}

// Detect captures the screen and looks for the template at templatePath.
// It returns nil when the best score is below confidence.
func (m *Matcher) Detect(ctx context.Context, templatePath string, confidence float64) (*MatchResult, error) {
	tmpl, err := LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(templatePath)
	logging.SearchFor(name)
	res, err := m.detectTemplate(ctx, toGray(tmpl), confidence)
	if err != nil {
		return nil, err
	}
	if res == nil {
		logging.NotFound(name)
		return nil, nil
	}
	logging.Found(name, res.CenterX, res.CenterY, res.Score)
	return res, nil
}

func (m *Matcher) detectTemplate(ctx context.Context, tmpl *grayPlane, confidence float64) (*MatchResult, error) {
	frame, err := m.screen.Capture()
	if err != nil {
		return nil, err
	}
	return match(ctx, frame, tmpl, confidence, m.opts.Workers)
}

// MatchImage correlates tmpl against frame directly
func MatchImage(ctx context.Context, frame, tmpl image.Image, confidence float64, workers int) (*MatchResult, error) {
	return match(ctx, frame, toGray(tmpl), confidence, workers)
}

// match correlates a prepared template against frame. The center is the
// top-left of the best window plus half the template size.
func match(ctx context.Context, frame image.Image, tmpl *grayPlane, confidence float64, workers int) (*MatchResult, error) {
	img := toGray(frame)
	if tmpl.w > img.w || tmpl.h > img.h {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrTemplateTooLarge, tmpl.w, tmpl.h, img.w, img.h)
	}

	best, err := correlate(ctx, img, tmpl, workers)
	if err != nil {
		return nil, err
	}
	if best.score < confidence {
		return nil, nil
	}
	b := frame.Bounds()
	return &MatchResult{
		CenterX: b.Min.X + best.x + tmpl.w/2,
		CenterY: b.Min.Y + best.y + tmpl.h/2,
		Score:   best.score,
	}, nil
}

// WaitFor polls for the template every interval while less than timeout has
// elapsed. It returns nil when the template never appears.
func (m *Matcher) WaitFor(ctx context.Context, templatePath string, confidence float64, timeout, interval time.Duration) (*MatchResult, error) {
	tmplImg, err := LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	tmpl := toGray(tmplImg)
	name := filepath.Base(templatePath)
	logging.WaitFor(name, timeout.String())

	start := time.Now()
	polls := 0
	for time.Since(start) < timeout {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		polls++
		res, err := m.detectTemplate(ctx, tmpl, confidence)
		if err != nil {
			return nil, err
		}
		if res != nil {
			logging.Found(name, res.CenterX, res.CenterY, res.Score)
			return res, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	m.logger.Debug("Timed out waiting for template", "template", name, "polls", polls)
	logging.NotFound(fmt.Sprintf("%s after %s", name, timeout))
	return nil, nil
}

// ClickOnImage glides to the match center and clicks it
func (m *Matcher) ClickOnImage(ctx context.Context, target *MatchResult, button device.Button, double bool) error {
	if target == nil {
		return ErrInvalidTarget
	}
	return m.ClickAt(ctx, target.CenterX, target.CenterY, button, double)
}

// ClickAt glides to (x, y) and clicks
func (m *Matcher) ClickAt(ctx context.Context, x, y int, button device.Button, double bool) error {
	if err := device.MoveSmooth(ctx, m.pointer, x, y, m.opts.MoveSteps, m.opts.MoveDuration); err != nil {
		return err
	}
	if err := m.pointer.Click(button, double); err != nil {
		return err
	}
	logging.Clicked(button.String(), x, y, double)
	return nil
}
