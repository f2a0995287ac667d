package player

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/eventlog"
)

func TestPlayTimingFidelity(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	l := eventlog.Log{
		eventlog.Move(0, 1, 1),
		eventlog.Move(0.5, 2, 2),
		eventlog.Move(1.0, 3, 3),
	}

	start := time.Now()
	require.NoError(t, New(pointer, Options{}).Play(context.Background(), l))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)

	calls := pointer.CallsOf("move")
	require.Len(t, calls, 3)
	for i, c := range calls {
		target := start.Add(time.Duration(l[i].Time * float64(time.Second)))
		late := c.At.Sub(target)
		assert.GreaterOrEqual(t, late, -time.Millisecond, "event %d fired early", i)
		assert.LessOrEqual(t, late, 50*time.Millisecond, "event %d fired late", i)
	}
}

func TestPlayAppliesEachKind(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	l := eventlog.Log{
		eventlog.Move(0, 5, 6),
		eventlog.Click(0, 5, 6, device.ButtonRight, true),
		eventlog.Click(0, 5, 6, device.ButtonRight, false),
		eventlog.Scroll(0, 5, 6, 4, -2),
	}

	require.NoError(t, New(pointer, Options{}).Play(context.Background(), l))

	calls := pointer.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "move", calls[0].Op)
	assert.Equal(t, 5, calls[0].X)
	assert.Equal(t, "press", calls[1].Op)
	assert.Equal(t, device.ButtonRight, calls[1].Button)
	assert.Equal(t, "release", calls[2].Op)
	assert.Equal(t, "scroll", calls[3].Op)
	assert.Equal(t, 0, calls[3].DX, "horizontal scroll is not replayed")
	assert.Equal(t, -2, calls[3].DY)
}

func TestPlayLateEventsFireImmediately(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	l := eventlog.Log{
		eventlog.Move(0, 1, 1),
		eventlog.Move(0, 2, 2),
		eventlog.Move(0, 3, 3),
	}

	start := time.Now()
	require.NoError(t, New(pointer, Options{}).Play(context.Background(), l))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Len(t, pointer.Calls(), 3)
}

func TestPlayStopsOnCancel(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	l := eventlog.Log{
		eventlog.Move(0, 1, 1),
		eventlog.Move(5, 2, 2),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := New(pointer, Options{}).Play(ctx, l)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, pointer.Calls(), 1)
}

func TestPlaySpeedScalesTargets(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	l := eventlog.Log{eventlog.Move(0.4, 1, 1)}

	start := time.Now()
	require.NoError(t, New(pointer, Options{Speed: 4}).Play(context.Background(), l))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 300*time.Millisecond)
}

func TestReplayFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, eventlog.Save(path, eventlog.Log{eventlog.Move(0, 7, 8)}))

	pointer := device.NewFakePointer(0, 0)
	require.NoError(t, New(pointer, Options{}).Replay(context.Background(), path))

	x, y := pointer.Position()
	assert.Equal(t, 7, x)
	assert.Equal(t, 8, y)
}

func TestReplayMissingFile(t *testing.T) {
	err := New(device.NewFakePointer(0, 0), Options{}).Replay(context.Background(), filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestPlayStopsOnInjectionFailure(t *testing.T) {
	pointer := device.NewFakePointer(0, 0)
	injectErr := errors.New("input injection denied")
	pointer.SetError(injectErr)
	l := eventlog.Log{
		eventlog.Move(0, 5, 6),
		eventlog.Click(0, 5, 6, device.ButtonLeft, true),
		eventlog.Move(0, 7, 8),
	}

	err := New(pointer, Options{}).Play(context.Background(), l)
	require.ErrorIs(t, err, injectErr)
	assert.Contains(t, err.Error(), "event 1")
	assert.Len(t, pointer.CallsOf("move"), 1, "events after the failure are not applied")
}
