package enrichment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/matsen/lexrel/internal/similarity"
)

// Report file names.
const (
	PValuesFile = "pvals.csv"
	CountsFile  = "counts.csv"
)

// PairsFile names the per-model foreground pair listing.
func PairsFile(model string) string {
	return model + "_pairs.csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func header(rep *Report) []string {
	return append([]string{"model"}, rep.Relations...)
}

func ints(label string, values []int) []string {
	row := make([]string, 0, len(values)+1)
	row = append(row, label)
	for _, v := range values {
		row = append(row, strconv.Itoa(v))
	}
	return row
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := relcsv.NewWriter(f)
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WritePValues writes one row of p-values per model under a relation header.
func WritePValues(path string, rep *Report) error {
	rows := [][]string{header(rep)}
	for _, res := range rep.Results {
		row := []string{res.Model}
		for _, p := range res.PValues {
			row = append(row, formatFloat(p))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// WriteCounts writes the background counts as a "total" row, then each
// model's foreground counts.
func WriteCounts(path string, rep *Report) error {
	rows := [][]string{header(rep), ints("total", rep.Background)}
	for _, res := range rep.Results {
		rows = append(rows, ints(res.Model, res.Foreground))
	}
	return writeCSV(path, rows)
}

// WritePairs lists the foreground pairs of one model that stand in a
// relation: word1, word2, score, relation.
func WritePairs(path string, ts *Tester, m *similarity.Matrix, res Result, words1, words2 []string) error {
	var rows [][]string
	for hit := range ts.Hits(m, res) {
		rows = append(rows, []string{words1[hit.I], words2[hit.J], formatFloat(hit.Score), hit.Relation})
	}
	return writeCSV(path, rows)
}

// WriteReport writes pvals.csv and counts.csv into dir.
func WriteReport(dir string, rep *Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := WritePValues(filepath.Join(dir, PValuesFile), rep); err != nil {
		return err
	}
	return WriteCounts(filepath.Join(dir, CountsFile), rep)
}
