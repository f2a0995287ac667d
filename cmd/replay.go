package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/eventlog"
	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/params"
	"github.com/jeeftor/automaton/internal/utils"
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Replay a recorded event log",
	Long: `Replay an event log made by "automaton record".

Each event fires at its recorded offset from the start of the replay.
Events that fall behind fire immediately without shifting the ones after
them. Ctrl-C stops the replay.

Examples:
  automaton replay                   # replay mouse_events.json
  automaton replay login.json --speed 2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		in := resolver().ResolveEventsFileWithInfo(args, 0)
		if err := filesystem.ValidateInputFile(in.Value, "event log", params.EnvName(config.KeyEventsFile)); err != nil {
			utils.ValidationError(err)
		}

		if _, err := eventlog.Load(in.Value); err != nil {
			utils.ValidationError(err)
		}

		eng, err := openEngine(cfg)
		if err != nil {
			utils.DeviceError("startup", err)
		}

		err = eng.Player().Replay(contextManager.GetContext(), in.Value)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			logging.UserWarnf("Replay interrupted")
			utils.Exit(utils.ExitCodeInterrupted)
		default:
			utils.DeviceError("replay", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64("speed", 0, "playback speed multiplier (default 1)")
	viper.BindPFlag(config.KeyPlayerSpeed, replayCmd.Flags().Lookup("speed"))
}
