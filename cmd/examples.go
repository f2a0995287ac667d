package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeeftor/automaton/internal/embedded"
	"github.com/jeeftor/automaton/internal/script"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

var (
	examplesOutput string
	examplesShow   string
)

// examplesCmd represents the examples command
var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List or extract the sample scripts built into the binary",
	Long: `List the sample automation scripts embedded in the binary, print one,
or extract them all to a directory.

Extracting never overwrites: a sample whose name is taken is written with
_1, _2, ... appended.

Examples:
  automaton examples                       # list samples
  automaton examples --show click_button.auto
  automaton examples --output ./examples   # extract all`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case examplesShow != "":
			content, err := embedded.GetScriptContent(examplesShow)
			if err != nil {
				utils.ValidationError(err)
			}
			fmt.Print(string(content))

		case examplesOutput != "":
			written, err := embedded.ExtractScripts(examplesOutput)
			if err != nil {
				utils.FileSystemError("extract samples to", examplesOutput, err)
			}
			ui.StatusMessage("Extracted %d scripts to %s", len(written), examplesOutput)

		default:
			names, err := embedded.ListEmbeddedScripts()
			if err != nil {
				utils.FatalError(err, "Could not list samples")
			}
			ui.SectionHeader("Sample scripts")
			for _, name := range names {
				ui.KeyValue(name, embedded.Description(name), 24)
			}
			fmt.Fprintf(os.Stdout, "\nTotal: %d scripts\n", len(names))
			ui.CommandExample("automaton examples --output ./examples", "extract them all")

			ui.SectionHeader("Script functions")
			for _, usage := range script.Builtins() {
				ui.BulletPoint(usage)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
	examplesCmd.Flags().StringVarP(&examplesOutput, "output", "o", "", "extract all samples into this directory")
	examplesCmd.Flags().StringVar(&examplesShow, "show", "", "print one sample")
}
