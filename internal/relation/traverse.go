package relation

import (
	"iter"
	"slices"

	"github.com/matsen/lexrel/internal/lexicon"
)

// Traverser enumerates related lemmas of a pivot word, one relation type at a time.
type Traverser struct {
	res   lexicon.Resource
	depth int
}

// Option configures a Traverser.
type Option func(*Traverser)

// WithDepth sets the maximum number of hops followed by indirect relations.
// Non-positive values select DefaultDepth.
func WithDepth(depth int) Option {
	return func(t *Traverser) {
		if depth > 0 {
			t.depth = depth
		}
	}
}

// NewTraverser creates a Traverser over a lexical resource.
func NewTraverser(res lexicon.Resource, opts ...Option) *Traverser {
	t := &Traverser{res: res, depth: DefaultDepth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resource returns the lexical resource being traversed.
func (t *Traverser) Resource() lexicon.Resource {
	return t.res
}

// Depth returns the closure bound.
func (t *Traverser) Depth() int {
	return t.depth
}

// Related yields each selected relation type, in the order of All(), with the
// lemmas related to word through it. Each set is computed only when reached,
// so stopping early skips the remaining work. An empty only selects every type.
//
// A word without lemmas yields no identity entry; every other selected type is
// yielded with an empty set.
func (t *Traverser) Related(word string, only ...Type) iter.Seq2[Type, []lexicon.LemmaID] {
	return func(yield func(Type, []lexicon.LemmaID) bool) {
		want := selector(only)
		p := newPivot(t.res, word)

		if len(p.lemmas.items) > 0 && want(Identity) {
			if !yield(Identity, p.lemmas.items) {
				return
			}
		}
		if want(Synonyms) && !yield(Synonyms, p.synonyms()) {
			return
		}
		for _, r := range SynsetRelations {
			if want(r) && !yield(r, p.direct(r).lemmas.items) {
				return
			}
		}
		for _, r := range OtherSynsetRelations {
			if want(r) && !yield(r, p.direct(r).lemmas.items) {
				return
			}
		}
		for _, r := range SynsetRelations {
			if want(Indirect(r)) && !yield(Indirect(r), p.indirect(r, t.depth)) {
				return
			}
		}
		for _, r := range LemmaRelations {
			if want(r) && !yield(r, p.lemmaRelated(r)) {
				return
			}
		}
		for _, r := range SynsetRelations {
			if want(Co(r)) && !yield(Co(r), p.co(r)) {
				return
			}
		}
	}
}

// RelatedWords is Related with lemmas mapped to distinct word forms.
func (t *Traverser) RelatedWords(word string, only ...Type) iter.Seq2[Type, []string] {
	return func(yield func(Type, []string) bool) {
		for rel, lemmas := range t.Related(word, only...) {
			var names ordered[string]
			for _, l := range lemmas {
				names.add(t.res.LemmaName(l))
			}
			if !yield(rel, names.items) {
				return
			}
		}
	}
}

func selector(only []Type) func(Type) bool {
	if len(only) == 0 {
		return func(Type) bool { return true }
	}
	return func(t Type) bool { return slices.Contains(only, t) }
}

// Closure returns the synsets reachable from start by repeatedly following
// relation, at most maxDepth hops away, in breadth-first order. Start synsets
// are never part of the result, and each synset is expanded at most once, so
// the walk terminates on cyclic graphs.
func Closure(res lexicon.Resource, start []lexicon.SynsetID, relation Type, maxDepth int) []lexicon.SynsetID {
	visited := make(map[lexicon.SynsetID]bool, len(start))
	frontier := make([]lexicon.SynsetID, 0, len(start))
	for _, s := range start {
		if !visited[s] {
			visited[s] = true
			frontier = append(frontier, s)
		}
	}

	var out []lexicon.SynsetID
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []lexicon.SynsetID
		for _, s := range frontier {
			for _, n := range res.RelatedSynsets(s, string(relation)) {
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)
				out = append(out, n)
			}
		}
		frontier = next
	}
	return out
}

// pivot is the per-word traversal state. Direct relation sets are memoized
// here so indirect and co- relations reuse them; nothing outlives one pivot.
type pivot struct {
	res     lexicon.Resource
	lemmas  ordered[lexicon.LemmaID]
	synsets []lexicon.SynsetID
	cache   map[Type]*relatedSet
}

// relatedSet holds the synsets reached through one direct relation and their lemmas.
type relatedSet struct {
	synsets ordered[lexicon.SynsetID]
	lemmas  ordered[lexicon.LemmaID]
}

func newPivot(res lexicon.Resource, word string) *pivot {
	p := &pivot{
		res:     res,
		synsets: res.Synsets(word),
		cache:   make(map[Type]*relatedSet),
	}
	for _, l := range res.Lemmas(word) {
		p.lemmas.add(l)
	}
	return p
}

func (p *pivot) synonyms() []lexicon.LemmaID {
	var out ordered[lexicon.LemmaID]
	for _, s := range p.synsets {
		for _, l := range p.res.SynsetLemmas(s) {
			out.add(l)
		}
	}
	return out.items
}

func (p *pivot) direct(r Type) *relatedSet {
	if set, ok := p.cache[r]; ok {
		return set
	}
	set := &relatedSet{}
	for _, s := range p.synsets {
		for _, related := range p.res.RelatedSynsets(s, string(r)) {
			set.synsets.add(related)
		}
	}
	for _, s := range set.synsets.items {
		for _, l := range p.res.SynsetLemmas(s) {
			set.lemmas.add(l)
		}
	}
	p.cache[r] = set
	return set
}

// indirect returns lemmas reachable through the closure of r that are not
// already directly related and are not the pivot itself.
func (p *pivot) indirect(r Type, depth int) []lexicon.LemmaID {
	d := p.direct(r)
	var out ordered[lexicon.LemmaID]
	for _, s := range Closure(p.res, d.synsets.items, r, depth) {
		if d.synsets.has(s) {
			continue
		}
		for _, l := range p.res.SynsetLemmas(s) {
			if d.lemmas.has(l) || p.lemmas.has(l) {
				continue
			}
			out.add(l)
		}
	}
	return out.items
}

func (p *pivot) lemmaRelated(r Type) []lexicon.LemmaID {
	var out ordered[lexicon.LemmaID]
	for _, l := range p.lemmas.items {
		for _, related := range p.res.RelatedLemmas(l, string(r)) {
			out.add(related)
		}
	}
	return out.items
}

// co follows the inverse of r from the pivot, then r itself from each result.
func (p *pivot) co(r Type) []lexicon.LemmaID {
	inv, ok := Inverse(r)
	if !ok {
		return nil
	}
	var synsets ordered[lexicon.SynsetID]
	for _, parent := range p.direct(inv).synsets.items {
		for _, s := range p.res.RelatedSynsets(parent, string(r)) {
			synsets.add(s)
		}
	}
	var out ordered[lexicon.LemmaID]
	for _, s := range synsets.items {
		for _, l := range p.res.SynsetLemmas(s) {
			out.add(l)
		}
	}
	return out.items
}

// ordered is an insertion-ordered set.
type ordered[T comparable] struct {
	items []T
	seen  map[T]struct{}
}

func (o *ordered[T]) add(v T) bool {
	if o.seen == nil {
		o.seen = make(map[T]struct{})
	}
	if _, ok := o.seen[v]; ok {
		return false
	}
	o.seen[v] = struct{}{}
	o.items = append(o.items, v)
	return true
}

func (o *ordered[T]) has(v T) bool {
	_, ok := o.seen[v]
	return ok
}
