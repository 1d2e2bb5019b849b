// Package similarity loads the per-model word-pair similarity matrices.
package similarity

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matsen/lexrel/internal/npz"
)

// ArrayKey is the archive key holding the scores.
const ArrayKey = "sims"

// Matrix holds the similarity of every (vocabulary-1, vocabulary-2) pair for one model.
type Matrix struct {
	Name string
	Rows int
	Cols int
	// Data is row-major: pair (i, j) at i*Cols+j.
	Data []float64
}

// New allocates a zero matrix.
func New(name string, rows, cols int) *Matrix {
	return &Matrix{Name: name, Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the score of pair (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns the score of pair (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Sub returns the submatrix of the given rows and columns, in the given order.
func (m *Matrix) Sub(rows, cols []int) *Matrix {
	out := New(m.Name, len(rows), len(cols))
	for a, i := range rows {
		for b, j := range cols {
			out.Set(a, b, m.At(i, j))
		}
	}
	return out
}

// ModelName derives a model name from a matrix file path: the base name
// without extension.
func ModelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads a matrix stored under ArrayKey. float32 data is widened.
func Load(path string) (*Matrix, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	h, data, err := r.Float64(ArrayKey)
	if err != nil {
		return nil, err
	}
	if len(h.Shape) != 2 {
		return nil, fmt.Errorf("%s: similarity matrix has %d dimensions, want 2", path, len(h.Shape))
	}
	return &Matrix{Name: ModelName(path), Rows: h.Shape[0], Cols: h.Shape[1], Data: data}, nil
}

// Save writes a matrix under ArrayKey.
func Save(path string, m *Matrix) error {
	return npz.Save(path, func(w *npz.Writer) error {
		return w.AddFloat64(ArrayKey, []int{m.Rows, m.Cols}, m.Data)
	})
}

// ExpandPaths expands glob patterns and returns the sorted, distinct paths.
// A pattern that matches nothing is kept literally so the later load
// reports the missing file.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
