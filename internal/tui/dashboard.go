package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeeftor/automaton/internal/script"
	"github.com/jeeftor/automaton/internal/styles"
)

const refreshInterval = 100 * time.Millisecond

// Controller is the side of the script runtime the dashboard drives
type Controller interface {
	Run(source string) (*script.Job, error)
	Stop() error
	Current() *script.Job
}

type startedMsg struct {
	job *script.Job
	err error
}

type stoppedMsg struct {
	err error
}

// RunModel is the Bubble Tea model of the run dashboard: it starts the
// script, streams its output and lets the user stop, re-run or quit
type RunModel struct {
	base     *BaseTUIModel
	renderer *TUIRenderer
	ctrl     Controller
	output   *OutputBuffer
	keys     RunKeyMap

	name   string
	source string

	spinner  spinner.Model
	viewport viewport.Model
	seen     int

	job        *script.Job
	stopping   bool
	lastAction string
	actionTime time.Time
	lastErr    error
}

// NewRunModel creates a dashboard for source; output must be the writer the
// runtime sends script output to
func NewRunModel(ctrl Controller, output *OutputBuffer, name, source string) *RunModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = InfoStyle

	base := NewBaseTUIModel()
	m := &RunModel{
		base:     base,
		renderer: NewTUIRenderer(base.State.Width, base.State.Height),
		ctrl:     ctrl,
		output:   output,
		keys:     DefaultKeyMap(),
		name:     name,
		source:   source,
		spinner:  sp,
		viewport: viewport.New(base.State.Width-4, base.State.Height-8),
		seen:     -1,
	}
	return m
}

func (m *RunModel) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinner.Tick, m.base.TickCmd(refreshInterval))
}

func (m *RunModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		job, err := m.ctrl.Run(m.source)
		return startedMsg{job: job, err: err}
	}
}

// stopCmd runs Stop off the UI loop; it can take the full grace and kill wait
func (m *RunModel) stopCmd() tea.Cmd {
	return func() tea.Msg {
		return stoppedMsg{err: m.ctrl.Stop()}
	}
}

func (m *RunModel) running() bool {
	return m.job != nil && m.job.State() == script.StateRunning
}

func (m *RunModel) action(what string) {
	m.lastAction = what
	m.actionTime = time.Now()
}

func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.base.HandleWindowResize(msg)
		m.renderer.UpdateDimensions(msg.Width, msg.Height)
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-8, 3)
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.action("start failed")
			return m, nil
		}
		m.job = msg.job
		m.lastErr = nil
		m.action("started")
		return m, nil

	case stoppedMsg:
		m.stopping = false
		if msg.err != nil && !errors.Is(msg.err, script.ErrNotRunning) {
			m.lastErr = msg.err
		}
		if m.job != nil {
			m.action("stopped (" + m.job.State().String() + ")")
		}
		return m, nil

	case TickMsg:
		m.refresh(false)
		return m, m.base.TickCmd(refreshInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *RunModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.base.State.Quitting = true
		if m.running() {
			return m, tea.Sequence(m.stopCmd(), tea.Quit)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		if !m.running() || m.stopping {
			return m, nil
		}
		m.stopping = true
		m.action("stop requested")
		return m, m.stopCmd()

	case key.Matches(msg, m.keys.Rerun):
		if m.running() || m.stopping {
			return m, nil
		}
		m.output.Clear()
		m.action("re-run")
		return m, m.startCmd()

	case key.Matches(msg, m.keys.Clear):
		m.output.Clear()
		m.refresh(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh copies new output into the viewport, following the tail
func (m *RunModel) refresh(force bool) {
	v := m.output.Version()
	if v == m.seen && !force {
		return
	}
	m.seen = v
	atBottom := m.viewport.AtBottom()

	lines := m.output.Lines()
	for i, line := range lines {
		if strings.HasPrefix(line, "Error:") {
			lines[i] = styles.LogErrorStyle.Render(line)
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if atBottom || force {
		m.viewport.GotoBottom()
	}
}

func (m *RunModel) status() string {
	state := script.StateIdle
	var elapsed time.Duration
	if m.job != nil {
		state = m.job.State()
		elapsed = m.job.Duration()
	}
	return m.renderer.RenderStatus(StatusInfo{
		Script:     m.name,
		Status:     state.String(),
		Elapsed:    elapsed,
		LastAction: m.lastAction,
		ActionTime: m.actionTime,
	})
}

func (m *RunModel) View() string {
	if m.base.IsQuitting() && !m.running() {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderer.RenderTitle("automaton run"))
	b.WriteString("\n")

	line := m.status()
	switch {
	case m.stopping:
		line = m.spinner.View() + " stopping... " + line
	case m.running():
		line = m.spinner.View() + " " + line
	}
	b.WriteString(line)
	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderer.RenderBox(m.viewport.View(), "Output", m.viewport.Width+2))
	b.WriteString("\n")
	b.WriteString(m.renderer.RenderFooter(m.renderer.RenderKeyHelp(m.keys.ShortHelp()),
		formatDuration(m.base.GetUptime())))
	return b.String()
}

// Job returns the job the dashboard last started
func (m *RunModel) Job() *script.Job {
	return m.job
}
