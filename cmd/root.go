package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var logger = zap.NewNop()

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "campaign-planner",
	Short: "Plan content marketing campaigns from a brief",
	Long: `campaign-planner turns a campaign brief into a marketing strategy, campaign
assets, ranked example posts, an experiment plan and a publishing calendar.

Strategy and copy come from an LLM (Anthropic, Hugging Face or Gemini); market
research is grounded with Tavily web search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		logger, err = newLogger(getVerbose())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.campaign-planner/config.json)")
}

// newLogger builds the process logger. Verbose runs log every stage at debug
// level; otherwise only warnings reach stderr so the progress output stays
// readable.
func newLogger(debug bool) (l *zap.Logger, err error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err = config.Build()
	if err != nil {
		err = errors.Wrap(err, "failed to initialize logger")
		return l, err
	}

	return l, err
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// getLogger returns the process logger.
func getLogger() (result *zap.Logger) {
	result = logger
	return result
}
