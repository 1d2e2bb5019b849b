// Package main provides the lexrel CLI entry point.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/matsen/lexrel/internal/config"
	"github.com/matsen/lexrel/internal/lexicon"
	"github.com/matsen/lexrel/internal/logging"
	"github.com/matsen/lexrel/internal/metrics"
	"github.com/matsen/lexrel/internal/relation"
	"github.com/matsen/lexrel/internal/storage"
	"github.com/matsen/lexrel/internal/vocab"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	humanOutput  bool
	verbose      bool
	quiet        bool
	lexiconFlag  string
	depthFlag    int
	metricsFlag  string
	settings     *config.Settings
	logger       = slog.Default()
	reg          = metrics.NewRegistry()
	commandStart time.Time
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lexrel",
	Short: "Lexical relations between word vocabularies",
	Long: `lexrel finds WordNet-style lexical relations between words and tests
whether similarity models rank related word pairs higher than chance.

Typical pipeline:
  lexrel init
  lexrel lexicon import /usr/share/wordnet/dict
  lexrel find vocab1.txt vocab2.txt --out-dir out
  lexrel compress vocab1.txt vocab2.txt out/relations.csv --out-dir out
  lexrel enrich out/relations.npz 'models/*.npz' --out-dir out

The lexicon is stored as JSONL with an SQLite cache rebuilt on demand.
All commands output JSON by default; use --human for tables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRun:  setup,
	PersistentPostRun: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Log warnings and errors only")
	pf.StringVar(&lexiconFlag, "lexicon", "", "Lexicon JSONL file (overrides config and LEXREL_LEXICON)")
	pf.IntVar(&depthFlag, "depth", 0, "Closure depth for indirect relations (default 20)")
	pf.StringVar(&metricsFlag, "metrics-file", "", "Write run counters in Prometheus text format to this file")
	rootCmd.Version = Version
}

func setup(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	logger = logging.New(os.Stderr, verbose, quiet)
	slog.SetDefault(logger)
	commandStart = time.Now()

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	settings, err = config.Resolve(cwd, config.Overrides{
		Lexicon:     lexiconFlag,
		Depth:       depthFlag,
		MetricsFile: metricsFlag,
	})
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	logger.Debug("settings", "root", settings.Root, "lexicon", settings.Lexicon, "depth", settings.Depth)
}

func teardown(cmd *cobra.Command, args []string) {
	reg.RecordCommand(cmd.Name(), time.Since(commandStart))
	if settings == nil || settings.MetricsFile == "" {
		return
	}
	if err := reg.WriteTextfile(settings.MetricsFile); err != nil {
		logger.Warn("writing metrics", "path", settings.MetricsFile, "err", err)
	}
}

// mustOpenLexicon loads the configured lexicon through its SQLite cache,
// rebuilding the cache when the JSONL file is newer. Exits on error.
func mustOpenLexicon() *lexicon.Graph {
	jsonlPath, err := settings.RequireLexicon()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(settings.DB), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	start := time.Now()
	g, rebuilt, err := storage.OpenLexicon(jsonlPath, settings.DB)
	if err != nil {
		if errors.Is(err, storage.ErrLexiconNotFound) {
			exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
		}
		exitWithError(ExitDataError, "%v", err)
	}
	if rebuilt {
		reg.LexiconRebuilds.Inc()
	}
	st := g.Stats()
	logger.Debug("lexicon loaded", "synsets", st.Synsets, "words", st.Words, "rebuilt", rebuilt, "took", time.Since(start))
	return g
}

// mustTraverser opens the lexicon and wraps it in a traverser using the
// configured closure depth.
func mustTraverser() *relation.Traverser {
	return relation.NewTraverser(mustOpenLexicon(), relation.WithDepth(settings.Depth))
}

// mustReadWords reads a word list file, exits on error.
func mustReadWords(path string) []string {
	words, err := vocab.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return words
}

// mustLoadEnumeration reads a vocabulary that must not repeat words.
func mustLoadEnumeration(path string) *vocab.Enumeration {
	e, err := vocab.LoadEnumeration(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return e
}

// mustParseRelations turns --relations names into types; empty means nil.
func mustParseRelations(names []string) []relation.Type {
	if len(names) == 0 {
		return nil
	}
	types, err := relation.ParseAll(names)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return types
}
