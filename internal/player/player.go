// Package player replays recorded event logs against a pointer with the
// original timing.
package player

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/eventlog"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/metrics"
)

// Options tune replay timing
type Options struct {
	// Spin is how long before each target time the player stops sleeping and
	// busy-waits
	Spin time.Duration
	// Speed scales playback; 2 plays twice as fast. Zero means 1.
	Speed float64
}

// Player applies events to a pointer
type Player struct {
	pointer device.Pointer
	spin    time.Duration
	speed   float64
}

// New creates a player driving pointer
func New(pointer device.Pointer, opts Options) *Player {
	if opts.Spin <= 0 {
		opts.Spin = constants.DefaultSpinThreshold
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	return &Player{pointer: pointer, spin: opts.Spin, speed: opts.Speed}
}

// Replay loads inputPath and plays it
func (p *Player) Replay(ctx context.Context, inputPath string) error {
	l, err := eventlog.Load(inputPath)
	if err != nil {
		return err
	}
	logging.ReplayTemplate.Logf("%s (%d events, %.2fs)", inputPath, len(l), l.Duration()/p.speed)
	if err := p.Play(ctx, l); err != nil {
		return err
	}
	logging.Complete("replay")
	return nil
}

// Play applies every event at epoch + t, where epoch is the moment Play was
// called. An event that is already late fires at once; later events keep
// their own targets.
func (p *Player) Play(ctx context.Context, l eventlog.Log) error {
	epoch := time.Now()
	for i, ev := range l {
		offset := time.Duration(ev.Time / p.speed * float64(time.Second))
		if err := p.waitUntil(ctx, epoch.Add(offset)); err != nil {
			logging.Debug("Replay interrupted", "event", i, "of", len(l))
			return err
		}
		if err := p.apply(ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		metrics.AddReplayedEvents(1)
	}
	return nil
}

func (p *Player) apply(ev eventlog.Event) error {
	switch ev.Type {
	case eventlog.KindMove:
		p.pointer.MoveTo(ev.X, ev.Y)
	case eventlog.KindClick:
		if ev.Pressed {
			return p.pointer.Press(ev.Button)
		}
		return p.pointer.Release(ev.Button)
	case eventlog.KindScroll:
		// horizontal scroll is kept in the log but not replayed
		p.pointer.Scroll(0, ev.DY)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// waitUntil sleeps until spin before target and then busy-waits, checking
// ctx throughout
func (p *Player) waitUntil(ctx context.Context, target time.Time) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := time.Until(target)
		if remaining <= 0 {
			return nil
		}
		if remaining <= p.spin {
			runtime.Gosched()
			continue
		}

		nap := remaining - p.spin
		if nap > constants.CancelPollInterval {
			nap = constants.CancelPollInterval
		}
		timer := time.NewTimer(nap)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
