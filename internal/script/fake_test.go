package script

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// syncBuffer is a goroutine-safe output sink
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeAPI records host calls and serves canned matches
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	match    *Match
	clicks   []*Match
	moves    [][2]int
	regions  []*Region
	stuck    chan struct{}
	panicMsg string
	err      error
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ScreenCapture(ctx context.Context, region *Region) (string, error) {
	f.record("screenCapture")
	f.mu.Lock()
	f.regions = append(f.regions, region)
	f.mu.Unlock()
	return "captures/captured_region.png", f.err
}

func (f *fakeAPI) RecordMouse(ctx context.Context, path string) error {
	f.record("recordMouse:" + path)
	return f.err
}

func (f *fakeAPI) Playback(ctx context.Context, path string) error {
	f.record("playback:" + path)
	return f.err
}

func (f *fakeAPI) DetectImage(ctx context.Context, path string, confidence float64) (*Match, error) {
	f.record("detectImage:" + path)
	f.mu.Lock()
	stuck := f.stuck
	f.mu.Unlock()
	if stuck != nil {
		// ignores ctx, like a wedged native call
		<-stuck
	}
	return f.match, f.err
}

func (f *fakeAPI) WaitForImage(ctx context.Context, path string, confidence float64, timeout, interval time.Duration) (*Match, error) {
	f.record("waitForImage:" + path)
	if f.match != nil {
		return f.match, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, nil
	}
}

func (f *fakeAPI) ClickOnImage(ctx context.Context, target *Match, button string, double bool) error {
	f.record("clickOnImage:" + button)
	f.mu.Lock()
	f.clicks = append(f.clicks, target)
	f.mu.Unlock()
	return f.err
}

func (f *fakeAPI) MoveMouse(ctx context.Context, x, y int, duration time.Duration, steps int) error {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.record("moveMouse")
	f.mu.Lock()
	f.moves = append(f.moves, [2]int{x, y})
	f.mu.Unlock()
	return f.err
}
