package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/lexrel/internal/vocab"
	"github.com/spf13/cobra"
)

// Output file names of vocab filter.
const (
	FilteredFile = "filtered.txt"
	SampleFile   = "sample.txt"
)

var (
	vocabOutDir  string
	vocabSample  int
	vocabSeed    uint64
	intersectOut string
)

func init() {
	vocabFilterCmd.Flags().StringVar(&vocabOutDir, "out-dir", ".", "Directory for "+FilteredFile+" and "+SampleFile)
	vocabFilterCmd.Flags().IntVarP(&vocabSample, "sample", "n", 0, "Also write a random sample of this many known words")
	vocabFilterCmd.Flags().Uint64Var(&vocabSeed, "seed", 0, "Seed of the sample")
	vocabIntersectCmd.Flags().StringVarP(&intersectOut, "out", "o", "-", "Output file ('-' for stdout)")
	vocabCmd.AddCommand(vocabFilterCmd, vocabIntersectCmd)
	rootCmd.AddCommand(vocabCmd)
}

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Prepare word lists",
}

var vocabFilterCmd = &cobra.Command{
	Use:   "filter <vocab>",
	Short: "Keep the words the lexicon knows",
	Long: `Write the words of a vocabulary that have at least one lemma in the
lexicon to filtered.txt, in input order and without repeats. With --sample N
also write N of them, drawn with --seed, to sample.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabFilter,
}

var vocabIntersectCmd = &cobra.Command{
	Use:   "intersect <vocab> <vocab>...",
	Short: "Write the words common to every vocabulary",
	Long:  `Write the words present in every given vocabulary, in the order of the first one.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runVocabIntersect,
}

// FilterResult is the response for vocab filter.
type FilterResult struct {
	Input    int    `json:"input"`
	Known    int    `json:"known"`
	Filtered string `json:"filtered"`
	Sample   string `json:"sample,omitempty"`
	Sampled  int    `json:"sampled,omitempty"`
}

func runVocabFilter(cmd *cobra.Command, args []string) error {
	if vocabSample < 0 {
		exitWithError(ExitError, "--sample must not be negative")
	}
	words := mustReadWords(args[0])
	g := mustOpenLexicon()

	known := vocab.FilterKnown(words, g.Known)
	if err := os.MkdirAll(vocabOutDir, 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}
	res := FilterResult{Input: len(words), Known: len(known), Filtered: filepath.Join(vocabOutDir, FilteredFile)}
	if err := vocab.WriteFile(res.Filtered, known); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("filtered vocabulary", "input", len(words), "known", len(known))

	if vocabSample > 0 {
		sample := vocab.Sample(known, vocabSample, vocabSeed)
		res.Sample = filepath.Join(vocabOutDir, SampleFile)
		res.Sampled = len(sample)
		if err := vocab.WriteFile(res.Sample, sample); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if len(sample) < vocabSample {
			logger.Warn("sample smaller than requested", "requested", vocabSample, "known", len(known))
		}
	}

	if humanOutput {
		fmt.Printf("%d of %d words known, written to %s\n", res.Known, res.Input, res.Filtered)
		if res.Sample != "" {
			fmt.Printf("%d sampled words written to %s\n", res.Sampled, res.Sample)
		}
	} else {
		outputJSON(res)
	}
	return nil
}

func runVocabIntersect(cmd *cobra.Command, args []string) error {
	lists := make([][]string, len(args))
	for i, path := range args {
		lists[i] = mustReadWords(path)
	}
	common := vocab.Intersect(lists...)

	if toStdout(intersectOut) {
		for _, w := range common {
			fmt.Println(w)
		}
		return nil
	}
	if err := vocab.WriteFile(intersectOut, common); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		fmt.Printf("%d common words written to %s\n", len(common), intersectOut)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: intersectOut})
	}
	return nil
}
