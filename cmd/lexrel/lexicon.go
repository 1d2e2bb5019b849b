package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/lexrel/internal/config"
	"github.com/matsen/lexrel/internal/lexicon"
	"github.com/matsen/lexrel/internal/storage"
	"github.com/spf13/cobra"
)

var lexiconImportOut string

func init() {
	lexiconImportCmd.Flags().StringVarP(&lexiconImportOut, "out", "o", "", "Output JSONL (default: the configured lexicon)")
	lexiconCmd.AddCommand(lexiconImportCmd, lexiconRebuildCmd, lexiconShowCmd, lexiconStatsCmd)
	rootCmd.AddCommand(lexiconCmd)
}

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Import, rebuild and inspect the lexicon",
}

var lexiconImportCmd = &cobra.Command{
	Use:   "import <wordnet-dict-dir>",
	Short: "Import WordNet database files into lexicon.jsonl",
	Long: `Import the WordNet data.noun, data.verb, data.adj and data.adv files
from a dict directory into the lexicon JSONL, then rebuild the cache.

Inside a workspace the lexicon is written to .lexrel/lexicon.jsonl unless
the workspace config or --out names another file.`,
	Args: cobra.ExactArgs(1),
	RunE: runLexiconImport,
}

var lexiconRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from lexicon.jsonl",
	Long: `Rebuild the SQLite lexicon cache from the JSONL source file.

Commands rebuild a stale cache on their own; use this after editing the
JSONL by hand or if the database becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runLexiconRebuild,
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show <word>",
	Short: "Show the synsets a word belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  runLexiconShow,
}

var lexiconStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lexicon size",
	Args:  cobra.NoArgs,
	RunE:  runLexiconStats,
}

// ImportResult is the response for lexicon import.
type ImportResult struct {
	Status string        `json:"status"`
	Path   string        `json:"path"`
	Stats  lexicon.Stats `json:"stats"`
}

// RebuildResult is the response for lexicon rebuild.
type RebuildResult struct {
	Status  string `json:"status"`
	Synsets int    `json:"synsets"`
}

// ShowResult is the response for lexicon show.
type ShowResult struct {
	Word   string              `json:"word"`
	Senses []storage.WordSense `json:"senses"`
}

func runLexiconImport(cmd *cobra.Command, args []string) error {
	out := lexiconImportOut
	if out == "" {
		out = settings.Lexicon
	}
	if out == "" && settings.Root != "" {
		out = config.LexiconPath(settings.Root)
	}
	if out == "" {
		exitWithError(ExitConfigError, "no output path\n\nRun 'lexrel init' first or pass --out.")
	}

	logger.Info("importing WordNet", "dir", args[0])
	records, err := lexicon.ImportDict(args[0])
	if err != nil {
		exitWithError(ExitDataError, "importing %s: %v", args[0], err)
	}
	g, err := lexicon.NewGraph(records)
	if err != nil {
		exitWithError(ExitDataError, "validating import: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		exitWithError(ExitError, "creating lexicon directory: %v", err)
	}
	if err := storage.WriteAllSynsets(out, records); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	dbPath := config.DBFor(settings.Root, out)
	if _, err := rebuildCache(out, dbPath); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	st := g.Stats()
	if humanOutput {
		fmt.Printf("Imported %d synsets (%d words) into %s\n", st.Synsets, st.Words, out)
	} else {
		outputJSON(ImportResult{Status: "imported", Path: out, Stats: st})
	}
	return nil
}

func rebuildCache(jsonlPath, dbPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("rebuilding lexicon database: %w", err)
	}
	reg.LexiconRebuilds.Inc()
	return n, nil
}

func runLexiconRebuild(cmd *cobra.Command, args []string) error {
	jsonlPath, err := settings.RequireLexicon()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	n, err := rebuildCache(jsonlPath, settings.DB)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt lexicon cache with %d synsets\n", n)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Synsets: n})
	}
	return nil
}

func runLexiconShow(cmd *cobra.Command, args []string) error {
	// Loading refreshes a stale cache before it is queried.
	mustOpenLexicon()

	db, err := storage.OpenDB(settings.DB)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	senses, err := db.WordSenses(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if senses == nil {
		senses = []storage.WordSense{}
	}

	if humanOutput {
		if len(senses) == 0 {
			fmt.Printf("%q is not in the lexicon\n", args[0])
			return nil
		}
		rows := make([][]string, len(senses))
		for i, s := range senses {
			rows[i] = []string{s.SynsetID, s.POS, strings.Join(s.Lemmas, ", ")}
		}
		outputTable([]string{"synset", "pos", "lemmas"}, rows)
	} else {
		outputJSON(ShowResult{Word: args[0], Senses: senses})
	}
	return nil
}

func runLexiconStats(cmd *cobra.Command, args []string) error {
	st := mustOpenLexicon().Stats()
	if humanOutput {
		outputTable([]string{"synsets", "lemmas", "words", "synset edges", "lemma edges"}, [][]string{{
			fmt.Sprint(st.Synsets), fmt.Sprint(st.Lemmas), fmt.Sprint(st.Words),
			fmt.Sprint(st.SynsetEdges), fmt.Sprint(st.LemmaEdges),
		}})
	} else {
		outputJSON(st)
	}
	return nil
}
