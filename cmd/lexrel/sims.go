package main

import (
	"fmt"

	"github.com/matsen/lexrel/internal/similarity"
	"github.com/matsen/lexrel/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	simsWords1 string
	simsWords2 string
	simsRows   int
	simsSeed   uint64
	simsKeep1  string
	simsKeep2  string
	simsOut    string
)

func init() {
	for _, c := range []*cobra.Command{simsSampleCmd, simsSubsetCmd} {
		c.Flags().StringVar(&simsWords1, "words1", "", "Vocabulary of the matrix rows")
		c.Flags().StringVar(&simsWords2, "words2", "", "Vocabulary of the matrix columns")
		c.MarkFlagRequired("words1")
		c.MarkFlagRequired("words2")
	}
	simsSampleCmd.Flags().IntVarP(&simsRows, "rows", "n", 10, "Pairs to print per model")
	simsSampleCmd.Flags().Uint64Var(&simsSeed, "seed", 0, "Seed of the sample")

	simsSubsetCmd.Flags().StringVar(&simsKeep1, "keep1", "", "Row words to keep, in output order")
	simsSubsetCmd.Flags().StringVar(&simsKeep2, "keep2", "", "Column words to keep, in output order")
	simsSubsetCmd.Flags().StringVarP(&simsOut, "out", "o", "", "Output .npz file")
	simsSubsetCmd.MarkFlagRequired("keep1")
	simsSubsetCmd.MarkFlagRequired("keep2")
	simsSubsetCmd.MarkFlagRequired("out")

	simsCmd.AddCommand(simsSampleCmd, simsSubsetCmd)
	rootCmd.AddCommand(simsCmd)
}

var simsCmd = &cobra.Command{
	Use:   "sims",
	Short: "Inspect and reshape similarity matrices",
}

var simsSampleCmd = &cobra.Command{
	Use:   "sample <sims.npz|glob>...",
	Short: "Print random word pairs with their similarity",
	Long: `Print N random (word1, word2, similarity) rows of each model, to check
that a matrix lines up with its vocabularies.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimsSample,
}

var simsSubsetCmd = &cobra.Command{
	Use:   "subset <sims.npz>",
	Short: "Restrict a similarity matrix to sub-vocabularies",
	Long: `Write the rows of --keep1 and the columns of --keep2 of a matrix indexed
by --words1 and --words2, so it lines up with a tensor built over the
filtered vocabularies.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimsSubset,
}

// SimSample is one sampled pair.
type SimSample struct {
	Model string  `json:"model"`
	Word1 string  `json:"word1"`
	Word2 string  `json:"word2"`
	Sim   float64 `json:"sim"`
}

// mustLoadMatrix loads a matrix and checks it against its vocabularies.
func mustLoadMatrix(path string, v1, v2 *vocab.Enumeration) *similarity.Matrix {
	m, err := similarity.Load(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if m.Rows != v1.Len() || m.Cols != v2.Len() {
		reg.ShapeMismatches.Inc()
		exitWithError(ExitShapeMismatch, "%s is %dx%d, vocabularies are %dx%d", path, m.Rows, m.Cols, v1.Len(), v2.Len())
	}
	return m
}

func runSimsSample(cmd *cobra.Command, args []string) error {
	v1 := mustLoadEnumeration(simsWords1)
	v2 := mustLoadEnumeration(simsWords2)
	paths, err := similarity.ExpandPaths(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	samples := []SimSample{}
	for _, path := range paths {
		m := mustLoadMatrix(path, v1, v2)
		for _, p := range vocab.SampleIndices(len(m.Data), simsRows, simsSeed) {
			i, j := p/m.Cols, p%m.Cols
			samples = append(samples, SimSample{Model: m.Name, Word1: v1.Word(i), Word2: v2.Word(j), Sim: m.Data[p]})
		}
	}

	if humanOutput {
		rows := make([][]string, len(samples))
		for i, s := range samples {
			rows[i] = []string{s.Model, s.Word1, s.Word2, formatFloat(s.Sim)}
		}
		outputTable([]string{"model", "word1", "word2", "sim"}, rows)
	} else {
		outputJSON(samples)
	}
	return nil
}

// positions maps each word of keep to its index in e.
func positions(e *vocab.Enumeration, keep []string, path string) []int {
	idx := make([]int, len(keep))
	for k, w := range keep {
		i, ok := e.Index(w)
		if !ok {
			exitWithError(ExitDataError, "%s: word %q is not in the matrix vocabulary", path, w)
		}
		idx[k] = i
	}
	return idx
}

func runSimsSubset(cmd *cobra.Command, args []string) error {
	v1 := mustLoadEnumeration(simsWords1)
	v2 := mustLoadEnumeration(simsWords2)
	m := mustLoadMatrix(args[0], v1, v2)

	rows := positions(v1, mustReadWords(simsKeep1), simsKeep1)
	cols := positions(v2, mustReadWords(simsKeep2), simsKeep2)
	sub := m.Sub(rows, cols)
	if err := similarity.Save(simsOut, sub); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %dx%d matrix to %s\n", sub.Rows, sub.Cols, simsOut)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: simsOut})
	}
	return nil
}
