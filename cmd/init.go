package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/nikogura/campaign-planner/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file and a sample brief",
	Long: `Create a default config file at $HOME/.campaign-planner/config.json (or the
path given with --config) and a sample brief next to it.

Edit the config to add your model provider key and Tavily key, or export
ANTHROPIC_API_KEY, HF_API_KEY, GEMINI_API_KEY and TAVILY_API_KEY instead.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Config written to %s\n", path)
	fmt.Printf("✓ Sample brief written to %s\n", filepath.Join(filepath.Dir(path), config.SampleBriefFile))
	fmt.Println("\nNext: add your API keys, then run")
	fmt.Printf("  campaign-planner plan %s\n", filepath.Join(filepath.Dir(path), config.SampleBriefFile))

	return err
}
