// Package recorder captures pointer activity into an event log. Capture is
// armed and disarmed by a keyboard chord; disarming writes the log and ends
// the session.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/eventlog"
	"github.com/jeeftor/automaton/internal/logging"
)

// ErrStreamClosed is returned when the event source ends before disarming
var ErrStreamClosed = errors.New("input event stream closed before recording stopped")

// Options tune a recorder
type Options struct {
	// Hotkey toggles capture, "ctrl+f1" by default
	Hotkey string
	// NoisePixels is the per-axis move distance that must be exceeded before
	// another move is kept
	NoisePixels int
	// OnArm is invoked when capture is armed or disarmed
	OnArm func(armed bool)
}

// Recorder records pointer events from an event source
type Recorder struct {
	source device.EventSource
	hotkey Hotkey
	noise  int
	onArm  func(bool)
}

// New creates a recorder reading from source
func New(source device.EventSource, opts Options) (*Recorder, error) {
	if opts.Hotkey == "" {
		opts.Hotkey = constants.DefaultRecordHotkey
	}
	hk, err := ParseHotkey(opts.Hotkey)
	if err != nil {
		return nil, err
	}
	if opts.NoisePixels <= 0 {
		opts.NoisePixels = constants.MoveNoisePixels
	}
	return &Recorder{source: source, hotkey: hk, noise: opts.NoisePixels, onArm: opts.OnArm}, nil
}

// Hotkey returns the chord that toggles capture
func (r *Recorder) Hotkey() Hotkey {
	return r.hotkey
}

// session holds the state of one Record call
type session struct {
	chord   *chord
	noise   int
	armed   bool
	armedAt time.Time

	lastT    float64
	haveMove bool
	lastX    int
	lastY    int
	events   eventlog.Log
}

func (s *session) arm(at time.Time) {
	s.armed = true
	s.armedAt = at
	s.haveMove = false
	s.lastT = 0
}

// stamp converts a host timestamp into seconds since arming, never
// going backwards
func (s *session) stamp(at time.Time) float64 {
	t := at.Sub(s.armedAt).Seconds()
	if t < s.lastT {
		t = s.lastT
	}
	s.lastT = t
	return t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// observe applies one pointer event while armed
func (s *session) observe(ev device.Event) {
	if !s.armed {
		return
	}
	switch ev.Kind {
	case device.EventMove:
		if s.haveMove && abs(ev.X-s.lastX) <= s.noise && abs(ev.Y-s.lastY) <= s.noise {
			return
		}
		s.events = append(s.events, eventlog.Move(s.stamp(ev.When), ev.X, ev.Y))
		s.haveMove = true
		s.lastX, s.lastY = ev.X, ev.Y
	case device.EventButtonDown, device.EventButtonUp:
		pressed := ev.Kind == device.EventButtonDown
		s.events = append(s.events, eventlog.Click(s.stamp(ev.When), ev.X, ev.Y, ev.Button, pressed))
	case device.EventScroll:
		s.events = append(s.events, eventlog.Scroll(s.stamp(ev.When), ev.X, ev.Y, ev.DX, ev.DY))
	}
}

// Record blocks until the hotkey arms and then disarms capture, writing the
// captured events to outputPath. Cancelling ctx ends the session without
// writing anything.
func (r *Recorder) Record(ctx context.Context, outputPath string) error {
	log := logging.NewContextualLogger(outputPath, "recorder")

	stream, err := r.source.Start()
	if err != nil {
		return fmt.Errorf("failed to start input capture: %w", err)
	}
	defer r.source.Stop()

	s := &session{chord: newChord(r.hotkey), noise: r.noise}
	logging.UserInfof("Press '%s' to start/stop recording.", r.hotkey)

	for {
		select {
		case <-ctx.Done():
			log.Info("Recording abandoned", "events", len(s.events))
			return ctx.Err()

		case ev, ok := <-stream:
			if !ok {
				return ErrStreamClosed
			}
			if ev.When.IsZero() {
				ev.When = time.Now()
			}

			switch ev.Kind {
			case device.EventKeyDown, device.EventKeyUp:
				if !s.chord.update(ev.Key, ev.Kind == device.EventKeyDown) {
					continue
				}
				if !s.armed {
					s.arm(ev.When)
					logging.RecordTemplate.Log("started")
					log.Debug("Capture armed")
					if r.onArm != nil {
						r.onArm(true)
					}
					continue
				}

				s.armed = false
				if r.onArm != nil {
					r.onArm(false)
				}
				logging.Stop("recording")
				if err := eventlog.Save(outputPath, s.events); err != nil {
					log.Error("Failed to save recording", "error", err)
					return err
				}
				logging.SaveFile(outputPath, fmt.Sprintf("%d events", len(s.events)))
				return nil

			default:
				s.observe(ev)
			}
		}
	}
}
