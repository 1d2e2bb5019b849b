package lexicon

import (
	"fmt"
	"sort"
)

// Graph is an in-memory arena of synsets and lemmas. It implements Resource.
type Graph struct {
	synsets     []synsetNode
	lemmas      []lemmaNode
	synsetIndex map[string]SynsetID
	words       map[string][]LemmaID
}

type synsetNode struct {
	id     string
	pos    string
	lemmas []LemmaID
	edges  map[string][]SynsetID
}

type lemmaNode struct {
	name   string
	synset SynsetID
	edges  map[string][]LemmaID
}

// Stats summarizes the size of a Graph.
type Stats struct {
	Synsets     int `json:"synsets"`
	Lemmas      int `json:"lemmas"`
	Words       int `json:"words"`
	SynsetEdges int `json:"synset_edges"`
	LemmaEdges  int `json:"lemma_edges"`
}

// NewGraph builds the arena from synset records. Every relation target must
// resolve to a synset or lemma present in records.
func NewGraph(records []SynsetRecord) (*Graph, error) {
	g := &Graph{
		synsets:     make([]synsetNode, 0, len(records)),
		synsetIndex: make(map[string]SynsetID, len(records)),
		words:       make(map[string][]LemmaID),
	}

	// First pass: allocate IDs so edges can point forward.
	lemmaIndex := make(map[string]LemmaID)
	for i := range records {
		r := &records[i]
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := g.synsetIndex[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSynset, r.ID)
		}
		sid := SynsetID(len(g.synsets))
		g.synsetIndex[r.ID] = sid
		node := synsetNode{id: r.ID, pos: r.POS}
		for _, l := range r.Lemmas {
			key := LemmaKey(r.ID, l.Name)
			if _, dup := lemmaIndex[key]; dup {
				continue
			}
			lid := LemmaID(len(g.lemmas))
			lemmaIndex[key] = lid
			g.lemmas = append(g.lemmas, lemmaNode{name: l.Name, synset: sid})
			node.lemmas = append(node.lemmas, lid)
			g.words[l.Name] = append(g.words[l.Name], lid)
		}
		g.synsets = append(g.synsets, node)
	}

	// Second pass: resolve edges.
	for i := range records {
		r := &records[i]
		sid := g.synsetIndex[r.ID]
		if len(r.Relations) > 0 {
			edges := make(map[string][]SynsetID, len(r.Relations))
			for rel, targets := range r.Relations {
				for _, target := range targets {
					tid, ok := g.synsetIndex[target]
					if !ok {
						return nil, fmt.Errorf("synset %s %s -> %s: %w", r.ID, rel, target, ErrUnknownTarget)
					}
					edges[rel] = appendUnique(edges[rel], tid)
				}
			}
			g.synsets[sid].edges = edges
		}
		for _, l := range r.Lemmas {
			if len(l.Relations) == 0 {
				continue
			}
			key := LemmaKey(r.ID, l.Name)
			lid := lemmaIndex[key]
			edges := g.lemmas[lid].edges
			if edges == nil {
				edges = make(map[string][]LemmaID, len(l.Relations))
			}
			for rel, targets := range l.Relations {
				for _, target := range targets {
					tid, ok := lemmaIndex[target]
					if !ok {
						return nil, fmt.Errorf("lemma %s %s -> %s: %w", key, rel, target, ErrUnknownTarget)
					}
					edges[rel] = appendUnique(edges[rel], tid)
				}
			}
			g.lemmas[lid].edges = edges
		}
	}

	return g, nil
}

func appendUnique[T comparable](s []T, v T) []T {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// Lemmas returns the lemmas whose name is exactly word.
func (g *Graph) Lemmas(word string) []LemmaID {
	return g.words[word]
}

// Synsets returns the synsets of word's lemmas, in lexicon order.
func (g *Graph) Synsets(word string) []SynsetID {
	lemmas := g.words[word]
	if len(lemmas) == 0 {
		return nil
	}
	out := make([]SynsetID, 0, len(lemmas))
	for _, l := range lemmas {
		out = appendUnique(out, g.lemmas[l].synset)
	}
	return out
}

// SynsetLemmas returns the lemmas of a synset.
func (g *Graph) SynsetLemmas(s SynsetID) []LemmaID {
	return g.synsets[s].lemmas
}

// RelatedSynsets follows a synset relation edge.
func (g *Graph) RelatedSynsets(s SynsetID, relation string) []SynsetID {
	return g.synsets[s].edges[relation]
}

// RelatedLemmas follows a lemma relation edge.
func (g *Graph) RelatedLemmas(l LemmaID, relation string) []LemmaID {
	return g.lemmas[l].edges[relation]
}

// PartOfSpeech returns the tag of the lemma's synset.
func (g *Graph) PartOfSpeech(l LemmaID) string {
	return g.synsets[g.lemmas[l].synset].pos
}

// LemmaName returns the word form of a lemma.
func (g *Graph) LemmaName(l LemmaID) string {
	return g.lemmas[l].name
}

// LemmaSynset returns the synset a lemma belongs to.
func (g *Graph) LemmaSynset(l LemmaID) SynsetID {
	return g.lemmas[l].synset
}

// SynsetName returns the stable identifier of a synset.
func (g *Graph) SynsetName(s SynsetID) string {
	return g.synsets[s].id
}

// LookupSynset finds a synset by its stable identifier.
func (g *Graph) LookupSynset(id string) (SynsetID, bool) {
	sid, ok := g.synsetIndex[id]
	return sid, ok
}

// Known reports whether word has at least one lemma.
func (g *Graph) Known(word string) bool {
	return len(g.words[word]) > 0
}

// Words returns every distinct lemma name, sorted.
func (g *Graph) Words() []string {
	out := make([]string, 0, len(g.words))
	for w := range g.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Stats returns size counters for the graph.
func (g *Graph) Stats() Stats {
	st := Stats{Synsets: len(g.synsets), Lemmas: len(g.lemmas), Words: len(g.words)}
	for _, s := range g.synsets {
		for _, targets := range s.edges {
			st.SynsetEdges += len(targets)
		}
	}
	for _, l := range g.lemmas {
		for _, targets := range l.edges {
			st.LemmaEdges += len(targets)
		}
	}
	return st
}
