package tensor

import (
	"fmt"
	"iter"
	"sort"

	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/matsen/lexrel/internal/vocab"
)

// BuildStats counts how records were placed.
type BuildStats struct {
	Records          int `json:"records"`
	Kept             int `json:"kept"`
	Swapped          int `json:"swapped"`
	Dropped          int `json:"dropped"`
	UnknownRelations int `json:"unknown_relations"`
}

// Builder fills a tensor from relation records.
type Builder struct {
	v1, v2   *vocab.Enumeration
	relIndex map[string]int
	t        *Tensor
	stats    BuildStats
}

// NewBuilder prepares a tensor over two vocabularies and a relation list.
func NewBuilder(v1, v2 *vocab.Enumeration, relations []string) (*Builder, error) {
	idx := make(map[string]int, len(relations))
	for i, r := range relations {
		if _, dup := idx[r]; dup {
			return nil, fmt.Errorf("duplicate relation %q in relation list", r)
		}
		idx[r] = i
	}
	return &Builder{
		v1:       v1,
		v2:       v2,
		relIndex: idx,
		t:        New(v1.Len(), v2.Len(), relations),
	}, nil
}

// Add places one record. The pair is used as given when Word1 is in the first
// vocabulary and Word2 in the second, swapped when the reverse holds, and
// dropped otherwise. Relation names missing from the relation list are skipped.
func (b *Builder) Add(rec relcsv.Record) {
	b.stats.Records++

	i, ok1 := b.v1.Index(rec.Word1)
	j, ok2 := b.v2.Index(rec.Word2)
	if !ok1 || !ok2 {
		si, sok1 := b.v1.Index(rec.Word2)
		sj, sok2 := b.v2.Index(rec.Word1)
		if !sok1 || !sok2 {
			b.stats.Dropped++
			return
		}
		i, j = si, sj
		b.stats.Swapped++
	}
	b.stats.Kept++

	for _, name := range rec.Relations {
		r, ok := b.relIndex[name]
		if !ok {
			b.stats.UnknownRelations++
			continue
		}
		b.t.Set(i, j, r)
	}
}

// Tensor returns the tensor built so far.
func (b *Builder) Tensor() *Tensor { return b.t }

// Stats returns the placement counts so far.
func (b *Builder) Stats() BuildStats { return b.stats }

// Build consumes a record stream into a tensor. The first read error aborts.
func Build(v1, v2 *vocab.Enumeration, relations []string, records iter.Seq2[relcsv.Record, error]) (*Tensor, BuildStats, error) {
	b, err := NewBuilder(v1, v2, relations)
	if err != nil {
		return nil, BuildStats{}, err
	}
	for rec, err := range records {
		if err != nil {
			return nil, b.stats, err
		}
		b.Add(rec)
	}
	return b.t, b.stats, nil
}

// DeriveRelations scans a record stream for the distinct relation names,
// sorted. The "none" sentinel never appears since readers drop it.
func DeriveRelations(records iter.Seq2[relcsv.Record, error]) ([]string, error) {
	seen := make(map[string]bool)
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		for _, r := range rec.Relations {
			if r != relcsv.None {
				seen[r] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}
