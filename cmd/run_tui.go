package cmd

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/engine"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/params"
	"github.com/jeeftor/automaton/internal/script"
	"github.com/jeeftor/automaton/internal/tui"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

// outputLines bounds the dashboard's output history
const outputLines = 2000

// runDashboard runs src under the Bubble Tea dashboard. It returns false
// without running anything when stdout is not a terminal.
func runDashboard(eng *engine.Engine, cfg config.Config, src params.ScriptSource) bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	// Log records and script output share the output pane while the
	// dashboard owns the screen
	output := tui.NewOutputBuffer(outputLines)
	logging.SetOutput(output)

	rt := script.NewRuntime(eng, runtimeOptions(cfg, output))
	stopMetrics := startMetrics(cfg, rt)
	defer stopMetrics()
	model := tui.NewRunModel(rt, output, scriptName(src), src.Body)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.InitWithLevel(logLevel)
		utils.FatalError(err, "Dashboard failed")
	}

	logging.InitWithLevel(logLevel)
	if job := model.Job(); job != nil {
		ui.JobSummary(job.ID[:8], job.State().String(), job.Duration())
		exitForState(job.State())
	}
	return true
}
