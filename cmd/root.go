package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/config"
	"github.com/jeeftor/automaton/internal/device/host"
	"github.com/jeeftor/automaton/internal/engine"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/params"
	"github.com/jeeftor/automaton/internal/resource"
	"github.com/jeeftor/automaton/internal/session"
)

var (
	cfgFile  string
	logLevel string
	backend  string

	// Global context and resource management
	contextManager *resource.ContextManager
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "automaton",
	Short: "Automaton drives the desktop with scripts, recordings and image matching",
	Long: `Automaton is a desktop automation engine.

It runs automation scripts on a cancellable background worker, records and
replays pointer activity, and finds on-screen images by normalized cross
correlation so scripts can wait for and click on them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Default to info level if not specified
		if logLevel == "" {
			logLevel = "info"
		}

		logging.InitWithLevel(logLevel)

		logging.Debug("Logging initialized", "level", logLevel)
		if used := viper.ConfigFileUsed(); used != "" {
			logging.Debug("Using config file", "path", used)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if contextManager != nil {
			if err := contextManager.Shutdown(); err != nil {
				logging.Debug("Cleanup finished with errors", "error", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initResourceManagement)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.automaton.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "screen capture backend (robotgo, screenshot)")

	// Bind flags to Viper
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyScreenBackend, rootCmd.PersistentFlags().Lookup("backend"))
}

// initResourceManagement initializes the global resource management system
func initResourceManagement() {
	if contextManager == nil {
		contextManager = resource.NewContextManager()
		logging.Debug("Resource management initialized")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// AUTOMATON_MATCHER_CONFIDENCE maps to matcher.confidence
	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Current directory
		viper.AddConfigPath(".")

		// 2. User's home directory
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home))
		}

		// 3. System config directory
		viper.AddConfigPath("/etc/automaton")

		viper.SetConfigType("yaml")
		viper.SetConfigName(".automaton")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	if logLevel == "" {
		logLevel = viper.GetString(config.KeyLogLevel)
	}
}

// loadConfig returns the effective configuration after flags, env and file
func loadConfig() config.Config {
	return config.Load(viper.GetViper())
}

// resolver returns a parameter resolver over the global viper instance
func resolver() *params.ParameterResolver {
	return params.NewParameterResolver(viper.GetViper())
}

// sessionStore returns the store holding the last run script
func sessionStore(cfg config.Config) *session.Store {
	return session.NewStore(cfg.SessionFile)
}

// openEngine opens the host devices for the configured backend and builds
// an engine over them
func openEngine(cfg config.Config) (*engine.Engine, error) {
	var eng *engine.Engine
	err := logging.LogOperation("open_engine", cfg.ScreenBackend, func() error {
		devices, err := host.Open(cfg.ScreenBackend)
		if err != nil {
			return err
		}
		eng, err = engine.New(devices, cfg)
		return err
	})
	return eng, err
}
