package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/script"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

var checkJSON bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Check a script without running it",
	Long: `Parse a script and check its calls and variables without touching the
screen or the pointer.

Reports syntax errors, calls to unknown functions, wrong argument counts
and variables that are read before they are assigned.

Examples:
  automaton check wait_and_click.auto
  automaton check --json wait_and_click.auto`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		if err := filesystem.ValidateInputFile(path, "script file", ""); err != nil {
			utils.ValidationError(err)
		}
		body, err := os.ReadFile(path)
		if err != nil {
			utils.FileSystemError("read", path, err)
		}

		result := script.Check(string(body))

		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				utils.FatalError(err, "Could not encode result")
			}
		} else {
			for _, e := range result.Errors {
				ui.ValidationErrorMsg(e.LineNumber, e.Message, e.Suggestion)
			}
			for _, w := range result.Warnings {
				ui.ValidationWarningMsg(w.LineNumber, w.Message)
			}
			if result.Valid {
				ui.StatusMessage("%s is valid", path)
			}
			ui.ResultSummary("Check", map[string]interface{}{
				"errors":    len(result.Errors),
				"warnings":  len(result.Warnings),
				"variables": len(result.Variables),
				"calls":     len(result.Calls),
			})
		}

		if !result.Valid {
			utils.Exit(utils.ExitCodeValidation)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the result as JSON")
}
