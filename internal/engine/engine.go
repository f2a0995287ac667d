// Package engine composes the devices, matcher, recorder, player and capture
// store into the capability set scripts run against.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jeeftor/automaton/internal/capture"
	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/matcher"
	"github.com/jeeftor/automaton/internal/metrics"
	"github.com/jeeftor/automaton/internal/player"
	"github.com/jeeftor/automaton/internal/recorder"
	"github.com/jeeftor/automaton/internal/script"
)

// Engine implements script.API on top of real or fake devices
type Engine struct {
	devices  device.Devices
	cfg      config.Config
	matcher  *matcher.Matcher
	player   *player.Player
	captures *capture.Store
	logger   *logging.ContextualLogger
}

var _ script.API = (*Engine)(nil)

// New wires an engine; the capture folder is created here
func New(devices device.Devices, cfg config.Config) (*Engine, error) {
	captures, err := capture.NewStore(cfg.CaptureDir, devices.Screen)
	if err != nil {
		return nil, err
	}
	return &Engine{
		devices: devices,
		cfg:     cfg,
		matcher: matcher.New(devices.Screen, devices.Pointer, matcher.Options{
			Workers:      cfg.MatchWorkers,
			MoveSteps:    cfg.ClickSteps,
			MoveDuration: cfg.ClickDuration,
		}),
		player:   player.New(devices.Pointer, player.Options{Spin: cfg.PlayerSpin, Speed: cfg.PlayerSpeed}),
		captures: captures,
		logger:   logging.NewContextualLogger("", "engine"),
	}, nil
}

// Matcher exposes the image matcher
func (e *Engine) Matcher() *matcher.Matcher { return e.matcher }

// Player exposes the event player
func (e *Engine) Player() *player.Player { return e.player }

// Captures exposes the capture store
func (e *Engine) Captures() *capture.Store { return e.captures }

// NewRecorder creates a recorder on the engine's event source
func (e *Engine) NewRecorder(onArm func(bool)) (*recorder.Recorder, error) {
	return recorder.New(e.devices.Events, recorder.Options{
		Hotkey:      e.cfg.RecorderHotkey,
		NoisePixels: e.cfg.RecorderNoise,
		OnArm:       onArm,
	})
}

func toMatch(res *matcher.MatchResult) *script.Match {
	if res == nil {
		return nil
	}
	return &script.Match{X: res.CenterX, Y: res.CenterY, Score: res.Score}
}

func (e *Engine) ScreenCapture(ctx context.Context, region *script.Region) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if region == nil {
		return e.captures.Capture(capture.DefaultName)
	}
	return e.captures.CaptureRegion(region.X, region.Y, region.W, region.H, capture.DefaultName)
}

func (e *Engine) RecordMouse(ctx context.Context, path string) error {
	rec, err := e.NewRecorder(nil)
	if err != nil {
		return err
	}
	return rec.Record(ctx, path)
}

func (e *Engine) Playback(ctx context.Context, path string) error {
	return e.player.Replay(ctx, path)
}

// observeMatch counts a search outcome
func observeMatch(res *matcher.MatchResult, err error, start time.Time) {
	result := metrics.MatchFound
	switch {
	case err != nil:
		result = metrics.MatchError
	case res == nil:
		result = metrics.MatchMissing
	}
	metrics.ObserveMatch(result, time.Since(start))
}

func (e *Engine) DetectImage(ctx context.Context, path string, confidence float64) (*script.Match, error) {
	start := time.Now()
	res, err := e.matcher.Detect(ctx, path, confidence)
	observeMatch(res, err, start)
	if err != nil {
		return nil, err
	}
	return toMatch(res), nil
}

func (e *Engine) WaitForImage(ctx context.Context, path string, confidence float64, timeout, interval time.Duration) (*script.Match, error) {
	start := time.Now()
	res, err := e.matcher.WaitFor(ctx, path, confidence, timeout, interval)
	observeMatch(res, err, start)
	if err != nil {
		return nil, err
	}
	return toMatch(res), nil
}

func (e *Engine) ClickOnImage(ctx context.Context, target *script.Match, button string, double bool) error {
	b, err := device.ParseButton(button)
	if err != nil {
		return err
	}
	if target == nil {
		return matcher.ErrInvalidTarget
	}
	return e.matcher.ClickOnImage(ctx, &matcher.MatchResult{
		CenterX: target.X,
		CenterY: target.Y,
		Score:   target.Score,
	}, b, double)
}

func (e *Engine) MoveMouse(ctx context.Context, x, y int, duration time.Duration, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	e.logger.Debug("Moving pointer", "x", x, "y", y, "duration", duration, "steps", steps)
	return device.MoveSmooth(ctx, e.devices.Pointer, x, y, steps, duration)
}
