package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/params"
	"github.com/jeeftor/automaton/internal/styles"
	"github.com/jeeftor/automaton/internal/utils"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show every setting with its effective value and where it came from.

Configuration files are searched in this order:
1. ./.automaton.yaml (project config)
2. ~/.automaton.yaml (user config)
3. /etc/automaton/.automaton.yaml (system config)

Environment variables (AUTOMATON_*) override config file values, with dots
in keys written as underscores: matcher.confidence is read from
AUTOMATON_MATCHER_CONFIDENCE. Command-line flags override both.`,
	Run: func(cmd *cobra.Command, args []string) {
		displayCurrentConfiguration()
	},
}

// configInitCmd creates a sample configuration file
var configInitCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Create a configuration file holding the defaults",
	Long: `Write every setting with its default value to a YAML file.

If no file is specified, creates ./.automaton.yaml. Existing files are
never overwritten.

Examples:
  automaton config init
  automaton config init ~/.automaton.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := ".automaton.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}
		absPath, err := filesystem.GetAbsolutePath(configPath)
		if err != nil {
			utils.ValidationError(err)
		}

		v := viper.New()
		config.SetDefaults(v)
		if err := v.SafeWriteConfigAs(absPath); err != nil {
			logging.UserErrorf("Could not create configuration file: %v", err)
			logging.UserInfof("Use 'automaton config validate' to check an existing file")
			utils.Exit(utils.ExitCodeFileSystem)
		}

		logging.Successf("Created configuration file: %s", absPath)
	},
}

// configValidateCmd validates the active configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the active configuration",
	Long: `Check the effective configuration: value ranges, the recorder hotkey,
the screen backend and whether the capture folder is writable.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		result := loadConfig().Validate()
		if report := config.FormatValidationErrors(result); report != "" {
			styles.PrintStyled(os.Stdout, styles.WarningStyle, report)
		}
		if !result.Valid {
			utils.Exit(utils.ExitCodeValidation)
		}
		styles.PrintStyledln(os.Stdout, styles.SuccessStyle, "Configuration is valid")
	},
}

// settingSource reports where viper found key
func settingSource(key string) string {
	if val, ok := os.LookupEnv(params.EnvName(key)); ok && val != "" {
		return "env"
	}
	if viper.InConfig(key) {
		return "file"
	}
	return "default"
}

func displayCurrentConfiguration() {
	cfg := loadConfig()

	styles.PrintStyledln(os.Stdout, styles.HeaderStyle, "Configuration")
	if used := viper.ConfigFileUsed(); used != "" {
		styles.PrintStyledln(os.Stdout, styles.MutedStyle, "file: "+used)
	} else {
		styles.PrintStyledln(os.Stdout, styles.MutedStyle, "file: none found, using defaults")
	}

	for _, e := range cfg.Entries() {
		styles.PrintStyled(os.Stdout, styles.KeyStyle, "  "+fmt.Sprintf("%-22s", e.Key))
		styles.PrintStyled(os.Stdout, styles.ValueStyle, fmt.Sprintf("%-24s", e.Value))
		styles.PrintStyledln(os.Stdout, styles.MutedStyle, settingSource(e.Key))
	}

	if result := cfg.Validate(); !result.Valid || len(result.Warnings) > 0 {
		styles.PrintStyled(os.Stdout, styles.WarningStyle, "\n"+config.FormatValidationErrors(result))
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}
