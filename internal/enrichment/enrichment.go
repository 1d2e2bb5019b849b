package enrichment

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/matsen/lexrel/internal/similarity"
	"github.com/matsen/lexrel/internal/tensor"
)

// DefaultPercent is the share of most similar pairs taken as foreground.
const DefaultPercent = 10.0

// ErrShapeMismatch is returned when a similarity matrix does not cover the
// same pairs as the relation tensor.
var ErrShapeMismatch = fmt.Errorf("similarity matrix %w", tensor.ErrShapeMismatch)

// ErrBadPercent is returned for a percentile outside (0, 100].
var ErrBadPercent = errors.New("percent must be in (0, 100]")

// Result holds one model's foreground counts and p-values, indexed like the
// tensor's relations.
type Result struct {
	Model      string    `json:"model"`
	Foreground []int     `json:"foreground"`
	PValues    []float64 `json:"pvalues"`
	// Top lists the flat pair indices (i*n2+j) of the foreground, most similar first.
	Top []int `json:"-"`
}

// Report collects the results of several models against one tensor.
type Report struct {
	Relations  []string `json:"relations"`
	NumPairs   int      `json:"num_pairs"`
	NumTop     int      `json:"num_top"`
	Percent    float64  `json:"percent"`
	Background []int    `json:"background"`
	Results    []Result `json:"results"`
}

// Tester runs enrichment tests against a fixed relation tensor.
type Tester struct {
	t          *tensor.Tensor
	percent    float64
	numPairs   int
	numTop     int
	background []int
}

// NewTester prepares a tester taking the top percent of pairs as foreground.
func NewTester(t *tensor.Tensor, percent float64) (*Tester, error) {
	if percent <= 0 || percent > 100 || math.IsNaN(percent) {
		return nil, fmt.Errorf("%w: got %g", ErrBadPercent, percent)
	}
	n1, n2, _ := t.Dims()
	return &Tester{
		t:          t,
		percent:    percent,
		numPairs:   n1 * n2,
		numTop:     NumTop(percent, n1*n2),
		background: t.Counts(),
	}, nil
}

// NumTop is the foreground size: the integer part of percent/100 * numPairs.
func NumTop(percent float64, numPairs int) int {
	return int(percent / 100 * float64(numPairs))
}

// NumPairs returns the population size.
func (ts *Tester) NumPairs() int { return ts.numPairs }

// NumTop returns the foreground size.
func (ts *Tester) NumTop() int { return ts.numTop }

// Background returns the per-relation counts over all pairs.
func (ts *Tester) Background() []int { return ts.background }

// Report returns an empty report header for this tester.
func (ts *Tester) Report() *Report {
	return &Report{
		Relations:  ts.t.Relations(),
		NumPairs:   ts.numPairs,
		NumTop:     ts.numTop,
		Percent:    ts.percent,
		Background: ts.background,
	}
}

// Test computes foreground counts and p-values for one model. The matrix
// shape must equal the tensor's first two dimensions.
func (ts *Tester) Test(m *similarity.Matrix) (Result, error) {
	n1, n2, nr := ts.t.Dims()
	if m.Rows != n1 || m.Cols != n2 {
		return Result{}, fmt.Errorf("%w: %s is %dx%d, tensor is %dx%d",
			ErrShapeMismatch, m.Name, m.Rows, m.Cols, n1, n2)
	}

	top := TopPairs(m.Data, ts.numTop)
	fg := make([]int, nr)
	for _, p := range top {
		i, j := p/n2, p%n2
		for r := 0; r < nr; r++ {
			if ts.t.At(i, j, r) {
				fg[r]++
			}
		}
	}

	pvals := make([]float64, nr)
	for r := range pvals {
		pvals[r] = EnrichmentPValue(fg[r], ts.numPairs, ts.background[r], ts.numTop)
	}
	return Result{Model: m.Name, Foreground: fg, PValues: pvals, Top: top}, nil
}

// TopPairs returns the flat indices of the k highest scores, highest first.
// Equal scores keep ascending index order; NaN ranks below every number.
func TopPairs(scores []float64, k int) []int {
	if k <= 0 {
		return nil
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

// TopHit is a foreground pair that stands in some relation.
type TopHit struct {
	I, J     int
	Score    float64
	Relation string
}

// Hits yields, in foreground order, every (pair, relation) cell that holds.
func (ts *Tester) Hits(m *similarity.Matrix, res Result) iter.Seq[TopHit] {
	return func(yield func(TopHit) bool) {
		_, n2, nr := ts.t.Dims()
		rels := ts.t.Relations()
		for _, p := range res.Top {
			i, j := p/n2, p%n2
			for r := 0; r < nr; r++ {
				if !ts.t.At(i, j, r) {
					continue
				}
				if !yield(TopHit{I: i, J: j, Score: m.Data[p], Relation: rels[r]}) {
					return
				}
			}
		}
	}
}
