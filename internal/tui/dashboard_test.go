package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/script"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newDashboard(t *testing.T, src string) (*RunModel, *script.Runtime) {
	t.Helper()
	out := NewOutputBuffer(100)
	rt := script.NewRuntime(nil, script.RuntimeOptions{
		Grace:    100 * time.Millisecond,
		KillWait: 50 * time.Millisecond,
		Output:   out,
	})
	m := NewRunModel(rt, out, "demo.auto", src)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, rt
}

func start(t *testing.T, m *RunModel) *script.Job {
	t.Helper()
	msg := m.startCmd()()
	m.Update(msg)
	require.NotNil(t, m.Job())
	return m.Job()
}

func wait(t *testing.T, job *script.Job) script.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	state, err := job.Wait(ctx)
	require.NoError(t, err)
	return state
}

func TestOutputBufferSplitsAndTrims(t *testing.T) {
	b := NewOutputBuffer(2)
	b.Write([]byte("one\ntw"))
	b.Write([]byte("o\nthree\nfour"))
	assert.Equal(t, []string{"two", "three", "four"}, b.Lines())

	v := b.Version()
	b.Clear()
	assert.Empty(t, b.Lines())
	assert.NotEqual(t, v, b.Version())
}

func TestDashboardShowsOutput(t *testing.T) {
	m, _ := newDashboard(t, "print('hello from script')")
	job := start(t, m)
	assert.Equal(t, script.StateCompleted, wait(t, job))

	m.Update(TickMsg(time.Now()))
	view := m.View()
	assert.Contains(t, view, "hello from script")
	assert.Contains(t, view, "demo.auto")
	assert.Contains(t, view, "completed")
}

func TestDashboardStopKey(t *testing.T) {
	m, _ := newDashboard(t, "while true { }")
	job := start(t, m)

	_, cmd := m.Update(keyPress('s'))
	require.NotNil(t, cmd)
	assert.True(t, m.stopping)
	assert.Contains(t, m.View(), "stopping")

	// a second press while stopping is ignored
	_, again := m.Update(keyPress('s'))
	assert.Nil(t, again)

	m.Update(cmd())
	assert.False(t, m.stopping)
	assert.Equal(t, script.StateKilled, job.State())
	assert.Contains(t, m.lastAction, "killed")
}

func TestDashboardRerun(t *testing.T) {
	m, _ := newDashboard(t, "print('tick')")
	first := start(t, m)
	wait(t, first)

	_, cmd := m.Update(keyPress('r'))
	require.NotNil(t, cmd)
	m.Update(cmd())
	second := m.Job()
	assert.NotEqual(t, first.ID, second.ID)
	wait(t, second)
}

func TestDashboardRerunIgnoredWhileRunning(t *testing.T) {
	m, rt := newDashboard(t, "sleep(10)")
	start(t, m)
	_, cmd := m.Update(keyPress('r'))
	assert.Nil(t, cmd)
	require.NoError(t, rt.Stop())
}

func TestDashboardQuitStopsRunningJob(t *testing.T) {
	m, _ := newDashboard(t, "sleep(10)")
	job := start(t, m)

	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.True(t, m.base.IsQuitting())

	// the returned sequence stops the job before quitting
	m.Update(m.stopCmd()())
	assert.Equal(t, script.StateCancelled, wait(t, job))
	assert.Equal(t, "", m.View())
}

func TestDashboardShowsStartError(t *testing.T) {
	m, rt := newDashboard(t, "sleep(10)")
	start(t, m)

	m.Update(startedMsg{err: script.ErrAlreadyRunning})
	assert.Contains(t, m.View(), "a script is already running")
	require.NoError(t, rt.Stop())
}
