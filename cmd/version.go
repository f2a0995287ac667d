package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/ui"
)

// Set with -ldflags "-X github.com/jeeftor/automaton/cmd.buildVersion=..."
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildTime    = "unknown"
)

var versionShort bool

// versionWidth aligns the version report columns
const versionWidth = 10

// buildStamp is what the binary knows about its own build
type buildStamp struct {
	Version string
	Commit  string
	Built   string
}

// readBuildStamp prefers ldflags values and falls back to the VCS settings
// the go tool embeds in module builds
func readBuildStamp(info *debug.BuildInfo) buildStamp {
	s := buildStamp{Version: buildVersion, Commit: buildCommit, Built: buildTime}
	if info != nil {
		if s.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			s.Version = info.Main.Version
		}
		for _, kv := range info.Settings {
			switch {
			case kv.Key == "vcs.revision" && s.Commit == "none":
				s.Commit = kv.Value
			case kv.Key == "vcs.time" && s.Built == "unknown":
				s.Built = kv.Value
			}
		}
	}
	if len(s.Commit) > 12 {
		s.Commit = s.Commit[:12]
	}
	if t, err := time.Parse(time.RFC3339, s.Built); err == nil {
		s.Built = t.UTC().Format("2006-01-02 15:04:05 MST")
	}
	return s
}

// printVersion writes the build stamp followed by the devices and trigger
// settings the engine would run with
func printVersion(w io.Writer, stamp buildStamp, cfg config.Config) {
	old := ui.Output
	ui.Output = w
	defer func() { ui.Output = old }()

	ui.SectionHeader("automaton " + stamp.Version)
	ui.KeyValue("commit", stamp.Commit, versionWidth)
	ui.KeyValue("built", stamp.Built, versionWidth)
	ui.KeyValue("platform", fmt.Sprintf("%s/%s %s", runtime.GOOS, runtime.GOARCH, runtime.Version()), versionWidth)

	ui.SectionHeader("Engine")
	ui.KeyValue("screen", cfg.ScreenBackend, versionWidth)
	ui.KeyValue("pointer", "robotgo", versionWidth)
	ui.KeyValue("hotkey", cfg.RecorderHotkey, versionWidth)
	metricsAddr := cfg.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = "off"
	}
	ui.KeyValue("metrics", metricsAddr, versionWidth)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, build and engine information",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		stamp := readBuildStamp(info)
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), stamp.Version)
			return
		}
		printVersion(cmd.OutOrStdout(), stamp, loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionShort, "short", "n", false, "print only the version")
}
