package tui

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CommonTUIState holds state common to all TUI models
type CommonTUIState struct {
	Width     int
	Height    int
	Quitting  bool
	StartTime time.Time
}

// BaseTUIModel provides common functionality for all TUI models
type BaseTUIModel struct {
	State *CommonTUIState
}

// NewBaseTUIModel creates a new base TUI model
func NewBaseTUIModel() *BaseTUIModel {
	return &BaseTUIModel{
		State: &CommonTUIState{
			Width:     80,
			Height:    24,
			StartTime: time.Now(),
		},
	}
}

// HandleWindowResize handles window resize messages consistently
func (b *BaseTUIModel) HandleWindowResize(msg tea.WindowSizeMsg) {
	b.State.Width = msg.Width
	b.State.Height = msg.Height
}

// IsQuitting returns true if the TUI is in quitting state
func (b *BaseTUIModel) IsQuitting() bool {
	return b.State.Quitting
}

// GetUptime returns the time elapsed since the TUI started
func (b *BaseTUIModel) GetUptime() time.Duration {
	return time.Since(b.State.StartTime)
}

// TickCmd returns a command that sends a TickMsg after d
func (b *BaseTUIModel) TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// TickMsg drives periodic refreshes
type TickMsg time.Time

// StatusInfo holds the fields of the status line
type StatusInfo struct {
	Script     string
	Status     string
	Elapsed    time.Duration
	LastAction string
	ActionTime time.Time
}

// OutputBuffer collects script output as lines, keeping at most maxLines.
// It is written by the script worker and read by the UI.
type OutputBuffer struct {
	mu       sync.Mutex
	lines    []string
	partial  string
	maxLines int
	version  int
}

// NewOutputBuffer creates a buffer holding the last maxLines lines
func NewOutputBuffer(maxLines int) *OutputBuffer {
	return &OutputBuffer{maxLines: maxLines}
}

func (b *OutputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	b.lines = append(b.lines, parts[:len(parts)-1]...)
	if over := len(b.lines) - b.maxLines; b.maxLines > 0 && over > 0 {
		b.lines = append([]string(nil), b.lines[over:]...)
	}
	b.version++
	return len(p), nil
}

// Lines returns the buffered lines, including an unterminated last line
func (b *OutputBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]string(nil), b.lines...)
	if b.partial != "" {
		out = append(out, b.partial)
	}
	return out
}

// Version changes on every write
func (b *OutputBuffer) Version() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Clear drops all buffered output
func (b *OutputBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.partial = ""
	b.version++
}
