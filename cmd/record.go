package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Record pointer activity to an event log",
	Long: `Record mouse moves, clicks and scrolls to a JSON event log.

Recording starts disarmed. Press the recorder hotkey (ctrl+f1 unless
recorder.hotkey says otherwise) to start capturing and press it again to
stop and save. Ctrl-C abandons the recording without saving.

The output file comes from the argument, AUTOMATON_EVENTS_FILE or the
events.file config key.

Examples:
  automaton record                   # record to mouse_events.json
  automaton record login.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		out := resolver().ResolveEventsFileWithInfo(args, 0)
		if out.Value == "" {
			utils.ValidationError(errors.New("no output file: provide as argument or set AUTOMATON_EVENTS_FILE"))
		}
		logging.Debug("Resolved event log", "path", out.Value, "source", out.Source)

		eng, err := openEngine(cfg)
		if err != nil {
			utils.DeviceError("startup", err)
		}

		rec, err := eng.NewRecorder(func(armed bool) {
			logging.Debug("Recorder armed state changed", "armed", armed)
			if armed {
				ui.InfoMessage("Recording, press the hotkey again to stop and save")
			}
		})
		if err != nil {
			utils.ValidationError(err)
		}
		ui.InfoMessage("Press %s to start recording to %s", rec.Hotkey(), out.Value)

		err = rec.Record(contextManager.GetContext(), out.Value)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			logging.UserWarnf("Recording abandoned, nothing was saved")
			utils.Exit(utils.ExitCodeInterrupted)
		default:
			utils.FileSystemError("record events to", out.Value, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
}
