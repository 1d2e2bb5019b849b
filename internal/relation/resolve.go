package relation

import (
	"context"
	"iter"
	"sort"

	"github.com/matsen/lexrel/internal/lexicon"
)

// Finding is one relation holding from a pivot word to another word.
type Finding struct {
	Pivot    string `json:"pivot"`
	Relation Type   `json:"relation"`
	Related  string `json:"related"`
}

// PairRelations lists the relations found from Word1 to Word2, in traversal order.
type PairRelations struct {
	Word1     string `json:"word1"`
	Word2     string `json:"word2"`
	Relations []Type `json:"relations"`
}

// RelationPairs lists the candidate words reached through one relation.
type RelationPairs struct {
	Relation Type     `json:"relation"`
	Words    []string `json:"words"`
}

// BulkStats counts the work done by AllPairs. Fields are updated while the
// sequence is consumed.
type BulkStats struct {
	Pivots        int `json:"pivots"`
	UnknownPivots int `json:"unknown_pivots"`
	Pairs         int `json:"pairs"`
	PairsPruned   int `json:"pairs_pruned"`
	Related       int `json:"related"`
}

// Resolver answers which relations hold between a pivot and candidate words.
type Resolver struct {
	trav *Traverser
	res  lexicon.Resource
}

// NewResolver creates a Resolver on top of a Traverser.
func NewResolver(t *Traverser) *Resolver {
	return &Resolver{trav: t, res: t.Resource()}
}

// Findings streams every relation from pivot to each candidate. Relations come
// in traversal order and candidates within one relation in input order.
// Repeated candidates are resolved once. Once identity or synonyms holds for
// a candidate no further relation is reported for it.
func (r *Resolver) Findings(pivot string, candidates []string) iter.Seq[Finding] {
	return func(yield func(Finding) bool) {
		cands := distinct(candidates)
		index := make(map[lexicon.LemmaID][]int)
		for i, c := range cands {
			for _, l := range r.res.Lemmas(c) {
				index[l] = append(index[l], i)
			}
		}
		if len(index) == 0 {
			return
		}

		suppressed := make([]bool, len(cands))
		hit := make([]bool, len(cands))
		for rel, lemmas := range r.trav.Related(pivot) {
			var hits []int
			for _, l := range lemmas {
				for _, i := range index[l] {
					if !hit[i] {
						hit[i] = true
						hits = append(hits, i)
					}
				}
			}
			sort.Ints(hits)
			for _, i := range hits {
				hit[i] = false
				if suppressed[i] {
					continue
				}
				if rel.IsUnique() {
					suppressed[i] = true
				}
				if !yield(Finding{Pivot: pivot, Relation: rel, Related: cands[i]}) {
					return
				}
			}
		}
	}
}

// ByPair groups the findings per candidate. Every distinct candidate gets an
// entry, in input order, with an empty list when nothing relates it.
func (r *Resolver) ByPair(pivot string, candidates []string) []PairRelations {
	cands := distinct(candidates)
	out := make([]PairRelations, len(cands))
	pos := make(map[string]int, len(cands))
	for i, c := range cands {
		out[i] = PairRelations{Word1: pivot, Word2: c, Relations: []Type{}}
		pos[c] = i
	}
	for f := range r.Findings(pivot, cands) {
		i := pos[f.Related]
		out[i].Relations = append(out[i].Relations, f.Relation)
	}
	return out
}

// ByRelation groups the findings per relation type, in traversal order.
// Relations without any candidate are omitted.
func (r *Resolver) ByRelation(pivot string, candidates []string) []RelationPairs {
	var out []RelationPairs
	for f := range r.Findings(pivot, candidates) {
		if n := len(out); n > 0 && out[n-1].Relation == f.Relation {
			out[n-1].Words = append(out[n-1].Words, f.Related)
			continue
		}
		out = append(out, RelationPairs{Relation: f.Relation, Words: []string{f.Related}})
	}
	return out
}

// AllPairs resolves the pairs across two vocabularies in both directions.
// Both lists are sorted and each word is paired only with words of the other
// list that sort strictly after it, so an unordered pair is examined from one
// side per direction. Pivots unknown to the resource are skipped without
// traversal. Only pairs with at least one relation are yielded; stats, when
// non-nil, counts everything examined. Iteration ends before the next pivot
// once ctx is done.
func (r *Resolver) AllPairs(ctx context.Context, vocab1, vocab2 []string, stats *BulkStats) iter.Seq[PairRelations] {
	if stats == nil {
		stats = &BulkStats{}
	}
	return func(yield func(PairRelations) bool) {
		lists := [2][]string{sortedCopy(vocab1), sortedCopy(vocab2)}
		for _, dir := range [2][2]int{{0, 1}, {1, 0}} {
			pivots, others := lists[dir[0]], lists[dir[1]]
			for _, w := range pivots {
				if ctx.Err() != nil {
					return
				}
				k := sort.Search(len(others), func(i int) bool { return others[i] > w })
				cands := others[k:]
				stats.Pivots++
				stats.PairsPruned += k
				stats.Pairs += len(cands)
				if len(cands) == 0 {
					continue
				}
				if !r.known(w) {
					stats.UnknownPivots++
					continue
				}
				for _, pr := range r.ByPair(w, cands) {
					if len(pr.Relations) == 0 {
						continue
					}
					stats.Related++
					if !yield(pr) {
						return
					}
				}
			}
		}
	}
}

func (r *Resolver) known(word string) bool {
	return len(r.res.Lemmas(word)) > 0 || len(r.res.Synsets(word)) > 0
}

func distinct(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func sortedCopy(words []string) []string {
	out := append([]string(nil), words...)
	sort.Strings(out)
	return out
}
