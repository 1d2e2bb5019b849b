package main

import (
	"fmt"
	"strings"

	"github.com/matsen/lexrel/internal/relation"
	"github.com/spf13/cobra"
)

var (
	pairsBy   string
	pairsFile string
)

func init() {
	pairsCmd.Flags().StringVar(&pairsBy, "by", "relation", "Group results by 'relation' or 'pair'")
	pairsCmd.Flags().StringVarP(&pairsFile, "file", "f", "", "Read further candidates from a word list file")
	rootCmd.AddCommand(pairsCmd)
}

var pairsCmd = &cobra.Command{
	Use:   "pairs <pivot> [candidates...]",
	Short: "Find the relations from one word to candidate words",
	Long: `Find every relation that holds from a pivot word to each candidate.

With --by relation (default) the result lists, per relation, the candidates
reached through it. With --by pair every candidate gets an entry, possibly
with no relations. Once identity or synonymy holds for a candidate no
further relation is reported for it.

Usage:
  lexrel pairs dog canine wolf cat
  lexrel pairs dog -f candidates.txt --by pair --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPairs,
}

func runPairs(cmd *cobra.Command, args []string) error {
	if pairsBy != "relation" && pairsBy != "pair" {
		exitWithError(ExitError, "invalid --by %q (valid: relation, pair)", pairsBy)
	}
	pivot, candidates := args[0], args[1:]
	if pairsFile != "" {
		candidates = append(candidates, mustReadWords(pairsFile)...)
	}
	if len(candidates) == 0 {
		exitWithError(ExitError, "no candidate words given")
	}

	res := relation.NewResolver(mustTraverser())

	if pairsBy == "pair" {
		byPair := res.ByPair(pivot, candidates)
		if humanOutput {
			for _, p := range byPair {
				rels := relation.Names(p.Relations)
				if len(rels) == 0 {
					rels = []string{relation.None}
				}
				fmt.Printf("%s\t%s\t%s\n", p.Word1, p.Word2, strings.Join(rels, ", "))
			}
		} else {
			outputJSON(byPair)
		}
		return nil
	}

	byRel := res.ByRelation(pivot, candidates)
	for _, rp := range byRel {
		for range rp.Words {
			reg.RecordFinding(rp.Relation)
		}
	}
	if humanOutput {
		if len(byRel) == 0 {
			fmt.Printf("No relations from %q to the candidates\n", pivot)
			return nil
		}
		rows := make([][]string, len(byRel))
		for i, rp := range byRel {
			rows[i] = []string{string(rp.Relation), strings.Join(rp.Words, ", ")}
		}
		outputTable([]string{"relation", "words"}, rows)
	} else {
		if byRel == nil {
			byRel = []relation.RelationPairs{}
		}
		outputJSON(byRel)
	}
	return nil
}
