package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/matsen/lexrel/internal/tensor"
	"github.com/spf13/cobra"
)

var (
	tensorRelationList string
	tensorRelations    []string
)

func init() {
	tensorCmd.PersistentFlags().StringVar(&tensorRelationList, "relation-list", "", "Relation list file (default: "+tensor.RelationsFile+" beside the tensor)")
	tensorPairsCmd.Flags().StringSliceVar(&tensorRelations, "relations", nil, "Only list these relations")
	tensorCmd.AddCommand(tensorPairsCmd, tensorInfoCmd)
	rootCmd.AddCommand(tensorCmd)
}

var tensorCmd = &cobra.Command{
	Use:   "tensor",
	Short: "Inspect a relation tensor",
}

var tensorPairsCmd = &cobra.Command{
	Use:   "pairs <relations.npz|dir> <vocab1> <vocab2>",
	Short: "List the word pairs set in each relation of a tensor",
	Long: `List, for each relation of the tensor, every (word1, word2) pair whose
cell is set. The tensor shape must match the two vocabularies and the
relation list; when a manifest is present the vocabularies must also be the
ones the tensor was built from.`,
	Args: cobra.ExactArgs(3),
	RunE: runTensorPairs,
}

var tensorInfoCmd = &cobra.Command{
	Use:   "info <relations.npz|dir>",
	Short: "Show tensor shape, per-relation counts and build manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runTensorInfo,
}

// TensorRelation is one relation of a tensor with its set pairs.
type TensorRelation struct {
	Relation string     `json:"relation"`
	Count    int        `json:"count"`
	Pairs    [][]string `json:"pairs,omitempty"`
}

// TensorInfo is the response for tensor info.
type TensorInfo struct {
	Shape     []int            `json:"shape"`
	Relations []TensorRelation `json:"relations"`
	Manifest  *tensor.Manifest `json:"manifest,omitempty"`
}

// tensorPaths splits a tensor argument into its directory and npz file.
func tensorPaths(arg string) (dir, file string) {
	if strings.HasSuffix(arg, ".npz") {
		return filepath.Dir(arg), arg
	}
	return arg, filepath.Join(arg, tensor.FileName)
}

// mustLoadTensor loads a tensor with its relation list. Exits on error.
func mustLoadTensor(arg, relationList string) (*tensor.Tensor, string) {
	dir, file := tensorPaths(arg)
	if relationList == "" {
		relationList = filepath.Join(dir, tensor.RelationsFile)
	}
	relations, err := relcsv.ReadRelationList(relationList)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	t, err := tensor.Load(file, relations)
	if err != nil {
		if errors.Is(err, tensor.ErrShapeMismatch) {
			reg.ShapeMismatches.Inc()
			exitWithError(ExitShapeMismatch, "%v", err)
		}
		exitWithError(ExitDataError, "%v", err)
	}
	return t, dir
}

// readManifest returns the manifest stored in dir, or nil when there is none.
func readManifest(dir string) *tensor.Manifest {
	path := filepath.Join(dir, tensor.ManifestFile)
	if _, err := os.Stat(path); err != nil {
		logger.Debug("no tensor manifest", "path", path)
		return nil
	}
	m, err := tensor.ReadManifest(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return &m
}

// mustMatchVocabularies checks the tensor against the vocabularies it is
// about to be indexed with.
func mustMatchVocabularies(t *tensor.Tensor, dir string, words1, words2 []string) {
	err := t.Validate(len(words1), len(words2), len(t.Relations()))
	if err == nil {
		if m := readManifest(dir); m != nil {
			err = m.Check(words1, words2, t.Relations())
		}
	}
	if err != nil {
		reg.ShapeMismatches.Inc()
		exitWithError(ExitShapeMismatch, "%v", err)
	}
}

func runTensorPairs(cmd *cobra.Command, args []string) error {
	t, dir := mustLoadTensor(args[0], tensorRelationList)
	words1 := mustLoadEnumeration(args[1]).Words()
	words2 := mustLoadEnumeration(args[2]).Words()
	mustMatchVocabularies(t, dir, words1, words2)

	var out []TensorRelation
	for r, name := range t.Relations() {
		if len(tensorRelations) > 0 && !slices.Contains(tensorRelations, name) {
			continue
		}
		tr := TensorRelation{Relation: name, Pairs: [][]string{}}
		for i, j := range t.Pairs(r) {
			tr.Pairs = append(tr.Pairs, []string{words1[i], words2[j]})
		}
		tr.Count = len(tr.Pairs)
		out = append(out, tr)
	}

	if humanOutput {
		for _, tr := range out {
			fmt.Printf("[%s] %d pairs\n", tr.Relation, tr.Count)
			for _, p := range tr.Pairs {
				fmt.Printf("  %s %s\n", p[0], p[1])
			}
		}
	} else {
		outputJSON(out)
	}
	return nil
}

func runTensorInfo(cmd *cobra.Command, args []string) error {
	t, dir := mustLoadTensor(args[0], tensorRelationList)
	info := TensorInfo{Shape: t.Shape(), Manifest: readManifest(dir)}
	counts := t.Counts()
	for r, name := range t.Relations() {
		info.Relations = append(info.Relations, TensorRelation{Relation: name, Count: counts[r]})
	}

	if humanOutput {
		fmt.Printf("shape: %v\n", info.Shape)
		if info.Manifest != nil {
			fmt.Printf("run:   %s (%s)\n", info.Manifest.RunID, info.Manifest.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		rows := make([][]string, len(info.Relations))
		for i, tr := range info.Relations {
			rows[i] = []string{tr.Relation, fmt.Sprint(tr.Count)}
		}
		outputTable([]string{"relation", "pairs"}, rows)
	} else {
		outputJSON(info)
	}
	return nil
}
