package relation

import (
	"slices"
	"strings"
)

// DefaultListingPOS restricts listings to nouns.
var DefaultListingPOS = []string{"n"}

// Listing returns the related words of word as findings, one relation after
// the other in traversal order and sorted within a relation. Only related
// lemmas whose part of speech is in pos are kept; multi-word lemmas and the
// word itself are dropped. Relations default to Direct().
func (t *Traverser) Listing(word string, pos []string, only ...Type) []Finding {
	if len(only) == 0 {
		only = Direct()
	}
	if len(pos) == 0 {
		pos = DefaultListingPOS
	}

	var out []Finding
	for rel, lemmas := range t.Related(word, only...) {
		var names ordered[string]
		for _, l := range lemmas {
			name := t.res.LemmaName(l)
			if name == word || strings.Contains(name, "_") {
				continue
			}
			if !slices.Contains(pos, t.res.PartOfSpeech(l)) {
				continue
			}
			names.add(name)
		}
		sorted := slices.Clone(names.items)
		slices.Sort(sorted)
		for _, name := range sorted {
			out = append(out, Finding{Pivot: word, Relation: rel, Related: name})
		}
	}
	return out
}
