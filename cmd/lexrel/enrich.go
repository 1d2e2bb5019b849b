package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/matsen/lexrel/internal/enrichment"
	"github.com/matsen/lexrel/internal/similarity"
	"github.com/spf13/cobra"
)

var (
	enrichPercent      float64
	enrichOutDir       string
	enrichWords1       string
	enrichWords2       string
	enrichRelationList string
)

func init() {
	enrichCmd.Flags().Float64VarP(&enrichPercent, "percent", "p", 0, "Top percentage of pairs taken as foreground (default 10)")
	enrichCmd.Flags().StringVar(&enrichOutDir, "out-dir", ".", "Directory for "+enrichment.PValuesFile+" and "+enrichment.CountsFile)
	enrichCmd.Flags().StringVar(&enrichWords1, "words1", "", "Vocabulary of the tensor rows; with --words2 writes <model>_pairs.csv")
	enrichCmd.Flags().StringVar(&enrichWords2, "words2", "", "Vocabulary of the tensor columns")
	enrichCmd.Flags().StringVar(&enrichRelationList, "relation-list", "", "Relation list file (default: relations.txt beside the tensor)")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <relations.npz|dir> <sims.npz|glob>...",
	Short: "Test whether similar word pairs are enriched for relations",
	Long: `For each similarity matrix, take the top percent of word pairs by
similarity as foreground and compute, per relation, the hypergeometric
probability of seeing at least as many related pairs in the foreground
as observed.

Similarity arguments may be glob patterns; the model name is the file name
without extension. Writes pvals.csv (p-values per model and relation) and
counts.csv (background "total" row, then foreground counts per model).

Usage:
  lexrel enrich out/relations.npz 'models/*.npz' --out-dir out
  lexrel enrich out glove.npz -p 5 --words1 v1.txt --words2 v2.txt`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEnrich,
}

// EnrichResult is the response for enrich.
type EnrichResult struct {
	RunID string `json:"run_id"`
	*enrichment.Report
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if (enrichWords1 == "") != (enrichWords2 == "") {
		exitWithError(ExitError, "--words1 and --words2 must be given together")
	}
	percent := settings.Percent
	if enrichPercent != 0 {
		percent = enrichPercent
	}

	t, dir := mustLoadTensor(args[0], enrichRelationList)
	var words1, words2 []string
	if enrichWords1 != "" {
		words1 = mustLoadEnumeration(enrichWords1).Words()
		words2 = mustLoadEnumeration(enrichWords2).Words()
		mustMatchVocabularies(t, dir, words1, words2)
	}

	paths, err := similarity.ExpandPaths(args[1:])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	ts, err := enrichment.NewTester(t, percent)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := os.MkdirAll(enrichOutDir, 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}

	rep := ts.Report()
	logger.Info("testing models", "models", len(paths), "pairs", ts.NumPairs(), "foreground", ts.NumTop())
	for _, path := range paths {
		m, err := similarity.Load(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		res, err := ts.Test(m)
		if err != nil {
			if errors.Is(err, enrichment.ErrShapeMismatch) {
				reg.ShapeMismatches.Inc()
				exitWithError(ExitShapeMismatch, "%v", err)
			}
			exitWithError(ExitError, "%v", err)
		}
		reg.ModelsTested.Inc()
		rep.Results = append(rep.Results, res)
		logger.Debug("model tested", "model", res.Model)

		if words1 != nil {
			out := filepath.Join(enrichOutDir, enrichment.PairsFile(res.Model))
			if err := enrichment.WritePairs(out, ts, m, res, words1, words2); err != nil {
				exitWithError(ExitError, "%v", err)
			}
		}
	}

	if err := enrichment.WriteReport(enrichOutDir, rep); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printReportHuman(rep)
	} else {
		outputJSON(EnrichResult{RunID: uuid.NewString(), Report: rep})
	}
	return nil
}

func printReportHuman(rep *enrichment.Report) {
	fmt.Printf("%d pairs, top %g%% = %d pairs\n\n", rep.NumPairs, rep.Percent, rep.NumTop)

	headers := append([]string{"model"}, rep.Relations...)
	rows := [][]string{append([]string{"background"}, itoa(rep.Background)...)}
	for _, res := range rep.Results {
		row := []string{res.Model}
		for r, p := range res.PValues {
			row = append(row, fmt.Sprintf("%d (p=%s)", res.Foreground[r], formatFloat(p)))
		}
		rows = append(rows, row)
	}
	outputTable(headers, rows)
}

func itoa(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
