package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/device"
	"github.com/jeeftor/automaton/internal/matcher"
	"github.com/jeeftor/automaton/internal/ui"
	"github.com/jeeftor/automaton/internal/utils"
)

var (
	detectWait   bool
	detectClick  string
	detectDouble bool
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect <template>",
	Short: "Find a template image on screen",
	Long: `Search the screen for a template image using normalized cross correlation.

The best match is reported when its score reaches the confidence threshold.
With --wait the screen is polled every --interval until the template shows
up or --timeout passes. With --click the pointer glides to the match and
clicks it.

Exits with status 1 when the template is not found.

Examples:
  automaton detect ok_button.png
  automaton detect ok_button.png --confidence 0.9
  automaton detect spinner_done.png --wait --timeout 30s --click left`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		tmpl, err := resolver().ResolveTemplateWithInfo(args, 0)
		if err != nil {
			utils.ValidationError(err)
		}

		var button device.Button
		if detectClick != "" {
			if button, err = device.ParseButton(detectClick); err != nil {
				utils.ValidationError(err)
			}
		}

		eng, err := openEngine(cfg)
		if err != nil {
			utils.DeviceError("startup", err)
		}

		ctx := contextManager.GetContext()
		var res *matcher.MatchResult
		if detectWait {
			res, err = eng.Matcher().WaitFor(ctx, tmpl.Value, cfg.MatchConfidence, cfg.MatchTimeout, cfg.MatchInterval)
		} else {
			res, err = eng.Matcher().Detect(ctx, tmpl.Value, cfg.MatchConfidence)
		}
		if err != nil {
			utils.FatalError(err, "Detection failed")
		}
		if res == nil {
			ui.ErrorMessage("Image not found: %s", tmpl.Value)
			utils.Exit(utils.ExitCodeNotFound)
			return
		}
		ui.MatchMessage(tmpl.Value, res.CenterX, res.CenterY, res.Score)

		if detectClick != "" {
			if err := eng.Matcher().ClickOnImage(ctx, res, button, detectDouble); err != nil {
				utils.DeviceError("click", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().BoolVarP(&detectWait, "wait", "w", false, "poll until the template appears or the timeout passes")
	detectCmd.Flags().StringVar(&detectClick, "click", "", "click the match with this button (left, right, middle)")
	detectCmd.Flags().BoolVar(&detectDouble, "double", false, "double-click instead of single click")
	detectCmd.Flags().Float64P("confidence", "c", 0, fmt.Sprintf("minimum match score in [-1, 1] (default %v)", constants.DefaultConfidence))
	detectCmd.Flags().Duration("timeout", 0, fmt.Sprintf("how long --wait polls (default %s)", constants.DefaultMatchTimeout))
	detectCmd.Flags().Duration("interval", 0, fmt.Sprintf("delay between --wait polls (default %s)", constants.DefaultMatchInterval))

	viper.BindPFlag(config.KeyMatcherConfidence, detectCmd.Flags().Lookup("confidence"))
	viper.BindPFlag(config.KeyMatcherTimeout, detectCmd.Flags().Lookup("timeout"))
	viper.BindPFlag(config.KeyMatcherInterval, detectCmd.Flags().Lookup("interval"))
}
