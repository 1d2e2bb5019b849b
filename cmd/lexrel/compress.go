package main

import (
	"fmt"
	"iter"
	"path/filepath"

	"github.com/matsen/lexrel/internal/logging"
	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/matsen/lexrel/internal/tensor"
	"github.com/spf13/cobra"
)

var (
	compressRelationList string
	compressOutDir       string
	compressSimple       bool
)

func init() {
	compressCmd.Flags().StringVar(&compressRelationList, "relation-list", "", "Relation names, one per line, in tensor order (default: derived from the CSV, sorted)")
	compressCmd.Flags().StringVar(&compressOutDir, "out-dir", ".", "Directory for "+tensor.FileName+", "+tensor.RelationsFile+" and "+tensor.ManifestFile)
	compressCmd.Flags().BoolVar(&compressSimple, "simple", false, "Read word1,relation,word2 rows instead of by-pair rows")
	rootCmd.AddCommand(compressCmd)
}

var compressCmd = &cobra.Command{
	Use:   "compress <vocab1> <vocab2> <relations.csv>",
	Short: "Build the boolean relation tensor from a relation CSV",
	Long: `Build a boolean tensor of shape (len(vocab1), len(vocab2), relations)
whose cell [i, j, r] is set when relation r holds between word i of vocab1
and word j of vocab2.

A row whose first word belongs to vocab2 and second word to vocab1 is
swapped into place; rows with a word in neither position are dropped and
counted. The tensor is written to relations.npz under the key "relations",
together with the relation list and a manifest of vocabulary fingerprints.`,
	Args: cobra.ExactArgs(3),
	RunE: runCompress,
}

// CompressResult is the response for compress.
type CompressResult struct {
	Status   string          `json:"status"`
	Path     string          `json:"path"`
	Manifest tensor.Manifest `json:"manifest"`
}

func runCompress(cmd *cobra.Command, args []string) error {
	v1 := mustLoadEnumeration(args[0])
	v2 := mustLoadEnumeration(args[1])
	csvPath := args[2]

	records := func() iter.Seq2[relcsv.Record, error] {
		if compressSimple {
			return relcsv.SimpleFile(csvPath)
		}
		return relcsv.PairsFile(csvPath)
	}

	var relations []string
	var err error
	if compressRelationList != "" {
		relations, err = relcsv.ReadRelationList(compressRelationList)
	} else {
		relations, err = tensor.DeriveRelations(records())
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	b, err := tensor.NewBuilder(v1, v2, relations)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	progress := logging.NewProgress(logger, "building tensor", logging.DefaultProgressInterval)
	for rec, err := range records() {
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		b.Add(rec)
		progress.Report("records", b.Stats().Records)
	}
	t, stats := b.Tensor(), b.Stats()
	progress.Done("records", stats.Records, "kept", stats.Kept, "dropped", stats.Dropped)
	reg.RecordBuild(stats)
	if stats.Dropped > 0 {
		logger.Warn("records dropped", "count", stats.Dropped, "reason", "word missing from both vocabularies")
	}
	if stats.UnknownRelations > 0 {
		logger.Warn("relations skipped", "count", stats.UnknownRelations, "reason", "not in relation list")
	}

	m := tensor.NewManifest(csvPath, args[0], v1.Words(), args[1], v2.Words(), t, stats)
	if err := tensor.SaveDir(compressOutDir, t, m); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	out := filepath.Join(compressOutDir, tensor.FileName)
	if humanOutput {
		fmt.Printf("Wrote %s with shape %v (%d records kept, %d swapped, %d dropped)\n",
			out, t.Shape(), stats.Kept, stats.Swapped, stats.Dropped)
	} else {
		outputJSON(CompressResult{Status: "written", Path: out, Manifest: m})
	}
	return nil
}
