package main

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/matsen/lexrel/internal/logging"
	"github.com/matsen/lexrel/internal/relation"
	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/spf13/cobra"
)

var (
	histShowAll     bool
	histPrecomputed bool
	histSimple      bool
)

func init() {
	histCmd.Flags().BoolVarP(&histShowAll, "show-all", "a", false, "List the word pairs of every relation")
	histCmd.Flags().BoolVar(&histPrecomputed, "precomputed", false, "Count the relations already listed in a relation CSV")
	histCmd.Flags().BoolVar(&histSimple, "simple", false, "With --precomputed, read word1,relation,word2 rows")
	rootCmd.AddCommand(histCmd)
}

var histCmd = &cobra.Command{
	Use:   "hist <pairs.csv>",
	Short: "Count relation types over word pairs",
	Long: `Look up the relations of every row of a CSV of pivot,candidate,... words
in the lexicon and count, per relation type, the rows in which it holds.

With --precomputed the input is a relation CSV as written by find, and the
relation names it lists are counted per pair. Pairs without a relation are
counted under "none".

Usage:
  lexrel hist pairs.csv --show-all
  lexrel hist out/relations.csv --precomputed --human`,
	Args: cobra.ExactArgs(1),
	RunE: runHist,
}

// HistEntry is one relation type with its count.
type HistEntry struct {
	Relation string     `json:"relation"`
	Count    int        `json:"count"`
	Pairs    [][]string `json:"pairs,omitempty"`
}

type histCounter struct {
	byName    map[string]*HistEntry
	keepPairs bool
}

func newHistCounter(keepPairs bool) *histCounter {
	return &histCounter{byName: make(map[string]*HistEntry), keepPairs: keepPairs}
}

// add counts rel once and remembers the pairs word1-word2 for every word2.
func (h *histCounter) add(rel, word1 string, words2 ...string) {
	e, ok := h.byName[rel]
	if !ok {
		e = &HistEntry{Relation: rel}
		h.byName[rel] = e
	}
	e.Count++
	if h.keepPairs {
		for _, w := range words2 {
			e.Pairs = append(e.Pairs, []string{word1, w})
		}
	}
}

// entries returns the counts, most frequent first and by name among equal
// counts.
func (h *histCounter) entries() []HistEntry {
	out := make([]HistEntry, 0, len(h.byName))
	for _, e := range h.byName {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b HistEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Relation, b.Relation)
	})
	return out
}

// histogram counts the relation names already present in records, one per
// pair.
func histogram(records iter.Seq2[relcsv.Record, error], keepPairs bool) ([]HistEntry, error) {
	h := newHistCounter(keepPairs)
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		if len(rec.Relations) == 0 {
			h.add(relcsv.None, rec.Word1, rec.Word2)
		}
		for _, r := range rec.Relations {
			h.add(r, rec.Word1, rec.Word2)
		}
	}
	return h.entries(), nil
}

// resolvedHistogram resolves each pivot,candidate,... row and counts every
// relation holding for at least one candidate once per row.
func resolvedHistogram(res *relation.Resolver, rows iter.Seq2[[]string, error], keepPairs bool) ([]HistEntry, error) {
	h := newHistCounter(keepPairs)
	progress := logging.NewProgress(logger, "resolving rows", logging.DefaultProgressInterval)
	n := 0
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		for _, rp := range res.ByRelation(row[0], row[1:]) {
			h.add(string(rp.Relation), row[0], rp.Words...)
			reg.RecordFinding(rp.Relation)
		}
		n++
		progress.Report("rows", n)
	}
	progress.Done("rows", n)
	return h.entries(), nil
}

func runHist(cmd *cobra.Command, args []string) error {
	var entries []HistEntry
	var err error
	switch {
	case histPrecomputed && histSimple:
		entries, err = histogram(relcsv.SimpleFile(args[0]), histShowAll)
	case histPrecomputed:
		entries, err = histogram(relcsv.PairsFile(args[0]), histShowAll)
	case histSimple:
		exitWithError(ExitError, "--simple needs --precomputed")
	default:
		res := relation.NewResolver(mustTraverser())
		entries, err = resolvedHistogram(res, relcsv.WordListsFile(args[0]), histShowAll)
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		outputJSON(entries)
		return nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Relation, fmt.Sprint(e.Count)}
	}
	outputTable([]string{"relation", "count"}, rows)
	if histShowAll {
		for _, e := range entries {
			fmt.Printf("\n[%s]\n", e.Relation)
			for _, p := range e.Pairs {
				fmt.Printf("  %s %s\n", p[0], p[1])
			}
		}
	}
	return nil
}
