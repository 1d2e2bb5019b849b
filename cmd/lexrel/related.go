package main

import (
	"fmt"

	"github.com/matsen/lexrel/internal/logging"
	"github.com/matsen/lexrel/internal/relation"
	"github.com/spf13/cobra"
)

var (
	relatedPOS       []string
	relatedRelations []string
	relatedOut       string
)

func init() {
	relatedCmd.Flags().StringSliceVar(&relatedPOS, "pos", relation.DefaultListingPOS, "Parts of speech to keep among related words")
	relatedCmd.Flags().StringSliceVar(&relatedRelations, "relations", nil, "Relation types to list (default: all direct relations)")
	relatedCmd.Flags().StringVarP(&relatedOut, "out", "o", "-", "Output CSV file ('-' for stdout)")
	rootCmd.AddCommand(relatedCmd)
}

var relatedCmd = &cobra.Command{
	Use:   "related <words-file>",
	Short: "List the related words of every word in a file",
	Long: `List the words related to each word of a word list, one CSV row per
(word, relation, related word). Relation names are singular (hypernym,
antonym, ...). Multi-word lemmas and the word itself are left out; related
words are kept only when their part of speech is in --pos.

Usage:
  lexrel related words.txt -o related.csv
  lexrel related words.txt --pos n,v --relations hypernyms,hyponyms`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

// RelatedResult is the response for related when writing to a file.
type RelatedResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Words  int    `json:"words"`
	Rows   int    `json:"rows"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	words := mustReadWords(args[0])
	only := mustParseRelations(relatedRelations)
	trav := mustTraverser()

	w, closeOut, err := csvOutput(relatedOut)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	progress := logging.NewProgress(logger, "listing related words", logging.DefaultProgressInterval)
	for i, word := range words {
		progress.Report("words", i, "total", len(words))
		for _, f := range trav.Listing(word, relatedPOS, only...) {
			if err := w.WriteSimple(f.Pivot, f.Relation.Singular(), f.Related); err != nil {
				exitWithError(ExitError, "writing CSV: %v", err)
			}
			reg.RecordFinding(f.Relation)
		}
	}
	if err := closeOut(); err != nil {
		exitWithError(ExitError, "writing CSV: %v", err)
	}
	progress.Done("words", len(words), "rows", w.Rows())

	if toStdout(relatedOut) {
		return nil
	}
	if humanOutput {
		fmt.Printf("Wrote %d rows for %d words to %s\n", w.Rows(), len(words), relatedOut)
	} else {
		outputJSON(RelatedResult{Status: "written", Path: relatedOut, Words: len(words), Rows: w.Rows()})
	}
	return nil
}
