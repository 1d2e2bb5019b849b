package main

import (
	"fmt"

	"github.com/matsen/lexrel/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the settings in effect after merging, from highest precedence:
command-line flags, LEXREL_* environment variables (a .env file is
loaded first), the workspace .lexrel/config.json, the global
config.yml, and built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !humanOutput {
		outputJSON(settings)
		return nil
	}

	root := settings.Root
	if root == "" {
		root = "(none)"
	}
	fmt.Printf("workspace:     %s\n", root)
	fmt.Printf("lexicon:       %s\n", settings.Lexicon)
	fmt.Printf("cache:         %s\n", settings.DB)
	fmt.Printf("depth:         %d\n", settings.Depth)
	fmt.Printf("percent:       %g\n", settings.Percent)
	fmt.Printf("metrics file:  %s\n", settings.MetricsFile)
	fmt.Printf("global config: %s\n", config.GlobalConfigPath())
	return nil
}
