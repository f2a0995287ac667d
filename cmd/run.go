package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/metrics"
	"github.com/jeeftor/automaton/internal/params"
	"github.com/jeeftor/automaton/internal/script"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

var runTUI bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run an automation script",
	Long: `Run an automation script on a background worker.

The script comes from, in order: the argument, AUTOMATON_SCRIPT, the
"script" config key, or the last script run (the session file). Every
script that runs is saved to the session file so it can be run again
without arguments.

Ctrl-C stops the job: the script is asked to stop and, if it has not
finished within the grace period, it is terminated.

Examples:
  automaton run examples/click_button.auto
  automaton run --tui wait_and_click.auto
  automaton run                      # run the last script again`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := sessionStore(cfg)

		src, err := resolver().ResolveScript(args, 0, store)
		if err != nil {
			utils.ValidationError(err)
		}
		logging.Debug("Resolved script", "name", src.Name, "source", src.Source)

		if src.Source != "session" {
			utils.WarnOnError(store.Save(src.Body), "Could not save session")
		}

		eng, err := openEngine(cfg)
		if err != nil {
			utils.DeviceError("startup", err)
		}

		if runTUI {
			if ok := runDashboard(eng, cfg, src); ok {
				return
			}
			logging.UserWarnf("No terminal attached, running without the dashboard")
		}

		ui.ScriptMessage(src.Name, strings.Count(src.Body, "\n")+1)
		rt := script.NewRuntime(eng, runtimeOptions(cfg, os.Stdout))
		stopMetrics := startMetrics(cfg, rt)

		job, err := rt.Run(src.Body)
		if err != nil {
			utils.FatalError(err, "Could not start script")
		}

		contextManager.GetResourceManager().AddCleanupFunc("script runtime", func() error {
			if rt.State() == script.StateRunning {
				return rt.Stop()
			}
			return nil
		})
		contextManager.OnInterrupt(func() {
			logging.Stop("script " + job.ID[:8])
			if err := rt.Stop(); err != nil {
				logging.Debug("Stop on interrupt", "error", err)
			}
		})

		state, _ := job.Wait(context.Background())
		stopMetrics()
		ui.JobSummary(job.ID[:8], state.String(), job.Duration())
		exitForState(state)
	},
}

// runtimeOptions maps the configuration onto a script runtime
func runtimeOptions(cfg config.Config, out io.Writer) script.RuntimeOptions {
	return script.RuntimeOptions{
		Grace:    cfg.StopGrace,
		KillWait: cfg.KillWait,
		Output:   out,
		Defaults: cfg.ScriptDefaults(),
		OnFinish: func(job *script.Job) {
			metrics.ObserveJob(job.State().String(), job.Duration())
		},
	}
}

// startMetrics serves metrics for rt when metrics.addr is set. The returned
// func stops the server.
func startMetrics(cfg config.Config, rt *script.Runtime) func() {
	if cfg.MetricsAddr == "" {
		return func() {}
	}
	ctx, cancel := context.WithCancel(contextManager.GetContext())
	router := metrics.NewRouter(func() (string, string) {
		if job := rt.Current(); job != nil {
			return job.ID, job.State().String()
		}
		return "", script.StateIdle.String()
	})
	go func() {
		utils.WarnOnError(metrics.Serve(ctx, cfg.MetricsAddr, router), "Metrics server stopped")
	}()
	return cancel
}

// exitForState exits non-zero unless the job completed
func exitForState(state script.State) {
	switch state {
	case script.StateCompleted:
		return
	case script.StateFailed:
		utils.Exit(utils.ExitCodeScript)
	case script.StateCancelled, script.StateKilled:
		utils.Exit(utils.ExitCodeInterrupted)
	default:
		utils.Exit(utils.ExitCodeGeneral)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "show the interactive run dashboard")
	runCmd.Flags().String("metrics-addr", "", "serve /metrics and /status on host:port while the script runs")
	viper.BindPFlag(config.KeyMetricsAddr, runCmd.Flags().Lookup("metrics-addr"))
}

// scriptName is used in messages when a script has no file name
func scriptName(src params.ScriptSource) string {
	if src.Name == "" {
		return "script"
	}
	return src.Name
}
