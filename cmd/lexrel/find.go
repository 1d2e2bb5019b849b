package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/matsen/lexrel/internal/logging"
	"github.com/matsen/lexrel/internal/relation"
	"github.com/spf13/cobra"
)

// RelationsCSV is the by-pair output of find.
const RelationsCSV = "relations.csv"

var findOutDir string

func init() {
	findCmd.Flags().StringVar(&findOutDir, "out-dir", ".", "Directory for "+RelationsCSV)
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <vocab1> <vocab2>",
	Short: "Find relations between every pair of words of two vocabularies",
	Long: `Resolve relations for every pair drawn from two word lists, in both
directions, and write one CSV row per related pair:

  word1,word2,relation,relation,...

Each word of one list is taken as a pivot against the words of the other
list sorting after it, so each unordered pair is examined once per
direction. Unknown pivots are skipped and counted.`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

// FindResult is the response for find.
type FindResult struct {
	Status string             `json:"status"`
	Path   string             `json:"path"`
	Stats  relation.BulkStats `json:"stats"`
}

func runFind(cmd *cobra.Command, args []string) error {
	vocab1 := mustReadWords(args[0])
	vocab2 := mustReadWords(args[1])
	res := relation.NewResolver(mustTraverser())

	if err := os.MkdirAll(findOutDir, 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}
	out := filepath.Join(findOutDir, RelationsCSV)
	w, closeOut, err := csvOutput(out)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var stats relation.BulkStats
	progress := logging.NewProgress(logger, "resolving pairs", logging.DefaultProgressInterval)
	for p := range res.AllPairs(ctx, vocab1, vocab2, &stats) {
		if err := w.WritePair(p.Word1, p.Word2, relation.Names(p.Relations)); err != nil {
			exitWithError(ExitError, "writing %s: %v", out, err)
		}
		for _, r := range p.Relations {
			reg.RecordFinding(r)
		}
		progress.Report("pivots", stats.Pivots, "pairs", stats.Pairs, "related", stats.Related)
	}
	if err := closeOut(); err != nil {
		exitWithError(ExitError, "writing %s: %v", out, err)
	}
	reg.RecordBulk(stats)
	if ctx.Err() != nil {
		exitWithError(ExitError, "interrupted after %d pivots; %s is incomplete", stats.Pivots, out)
	}
	progress.Done("pivots", stats.Pivots, "pairs", stats.Pairs, "related", stats.Related)

	if humanOutput {
		fmt.Printf("Wrote %d related pairs to %s\n", stats.Related, out)
		outputTable([]string{"pivots", "unknown pivots", "pairs", "pairs pruned", "related"}, [][]string{{
			fmt.Sprint(stats.Pivots), fmt.Sprint(stats.UnknownPivots), fmt.Sprint(stats.Pairs),
			fmt.Sprint(stats.PairsPruned), fmt.Sprint(stats.Related),
		}})
	} else {
		outputJSON(FindResult{Status: "written", Path: out, Stats: stats})
	}
	return nil
}
