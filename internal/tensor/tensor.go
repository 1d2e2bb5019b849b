// Package tensor builds and stores the boolean relation tensor indexed by
// (vocabulary-1 word, vocabulary-2 word, relation type).
package tensor

import (
	"errors"
	"fmt"
	"iter"
)

// ErrShapeMismatch is returned when stored dimensions disagree with the
// vocabularies or relation list they are used with.
var ErrShapeMismatch = errors.New("shape mismatch")

// Tensor is a dense boolean array of shape (n1, n2, len(relations)) in C order.
type Tensor struct {
	n1, n2    int
	relations []string
	data      []bool
}

// New allocates an all-false tensor.
func New(n1, n2 int, relations []string) *Tensor {
	return &Tensor{
		n1:        n1,
		n2:        n2,
		relations: relations,
		data:      make([]bool, n1*n2*len(relations)),
	}
}

// Dims returns the vocabulary sizes and the relation count.
func (t *Tensor) Dims() (n1, n2, nr int) {
	return t.n1, t.n2, len(t.relations)
}

// Shape returns the dimensions as a slice.
func (t *Tensor) Shape() []int {
	return []int{t.n1, t.n2, len(t.relations)}
}

// Relations returns the relation names in index order.
func (t *Tensor) Relations() []string {
	return t.relations
}

func (t *Tensor) offset(i, j, r int) int {
	return (i*t.n2+j)*len(t.relations) + r
}

// At reports whether relation r holds for pair (i, j).
func (t *Tensor) At(i, j, r int) bool {
	return t.data[t.offset(i, j, r)]
}

// Set marks relation r as holding for pair (i, j).
func (t *Tensor) Set(i, j, r int) {
	t.data[t.offset(i, j, r)] = true
}

// Count returns the number of pairs for which relation r holds.
func (t *Tensor) Count(r int) int {
	n := 0
	for p := 0; p < t.n1*t.n2; p++ {
		if t.data[p*len(t.relations)+r] {
			n++
		}
	}
	return n
}

// Counts returns Count for every relation.
func (t *Tensor) Counts() []int {
	out := make([]int, len(t.relations))
	for p := 0; p < t.n1*t.n2; p++ {
		base := p * len(t.relations)
		for r := range out {
			if t.data[base+r] {
				out[r]++
			}
		}
	}
	return out
}

// Mask returns relation r as a flat (n1*n2) slice, pair (i, j) at i*n2+j.
func (t *Tensor) Mask(r int) []bool {
	out := make([]bool, t.n1*t.n2)
	for p := range out {
		out[p] = t.data[p*len(t.relations)+r]
	}
	return out
}

// Pairs yields the (i, j) pairs for which relation r holds, in C order.
func (t *Tensor) Pairs(r int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i < t.n1; i++ {
			for j := 0; j < t.n2; j++ {
				if t.At(i, j, r) && !yield(i, j) {
					return
				}
			}
		}
	}
}

// RelationIndex returns the index of a relation name.
func (t *Tensor) RelationIndex(name string) (int, bool) {
	for i, r := range t.relations {
		if r == name {
			return i, true
		}
	}
	return 0, false
}

// Equal reports whether two tensors have the same shape, relations and cells.
func (t *Tensor) Equal(o *Tensor) bool {
	if t.n1 != o.n1 || t.n2 != o.n2 || len(t.relations) != len(o.relations) {
		return false
	}
	for i := range t.relations {
		if t.relations[i] != o.relations[i] {
			return false
		}
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Validate checks the tensor against expected dimensions.
func (t *Tensor) Validate(n1, n2, nr int) error {
	if t.n1 != n1 || t.n2 != n2 || len(t.relations) != nr {
		return fmt.Errorf("%w: tensor is %dx%dx%d, expected %dx%dx%d",
			ErrShapeMismatch, t.n1, t.n2, len(t.relations), n1, n2, nr)
	}
	return nil
}
