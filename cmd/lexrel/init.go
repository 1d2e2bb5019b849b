package main

import (
	"fmt"
	"os"

	"github.com/matsen/lexrel/internal/config"
	"github.com/spf13/cobra"
)

var (
	initLexicon string
	initPercent float64
)

func init() {
	initCmd.Flags().StringVar(&initLexicon, "lexicon-path", "", "Use an existing lexicon JSONL instead of the workspace copy")
	initCmd.Flags().Float64Var(&initPercent, "percent", 0, "Default enrichment percentage for this workspace")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a lexrel workspace in the current directory",
	Long: `Create a .lexrel workspace in the current directory.

The workspace holds config.json, the imported lexicon (lexicon.jsonl) and
the SQLite cache (cache/lexicon.db). Commands run anywhere below the
workspace pick it up automatically.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	cfg := &config.Config{
		Lexicon: initLexicon,
		Depth:   depthFlag,
		Percent: initPercent,
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.Init(cwd, cfg); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized lexrel workspace in %s\n", config.WorkspacePath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "created", Path: config.WorkspacePath(cwd)})
	}
	return nil
}
