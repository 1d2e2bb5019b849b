// Package lexicon holds the read-only lexical graph: synsets, the lemmas they
// group, and the typed edges between them.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
)

// SynsetID is the arena index of a synset in a Graph.
type SynsetID int32

// LemmaID is the arena index of a lemma in a Graph.
type LemmaID int32

// SynsetRecord is the serialized form of one synset, one per JSONL line.
type SynsetRecord struct {
	ID     string        `json:"id"`  // Stable identifier, e.g. "02084071-n"
	POS    string        `json:"pos"` // n, v, a, s, r
	Lemmas []LemmaRecord `json:"lemmas"`

	// Relations maps a relation name (hypernyms, part_meronyms, ...) to target synset IDs.
	Relations map[string][]string `json:"relations,omitempty"`
}

// LemmaRecord is one lemma of a SynsetRecord.
type LemmaRecord struct {
	Name string `json:"name"`

	// Relations maps a lemma relation name (antonyms, pertainyms, ...) to target lemma keys.
	Relations map[string][]string `json:"relations,omitempty"`
}

// Validation errors.
var (
	ErrEmptySynsetID   = errors.New("synset id is required")
	ErrEmptyLemmaName  = errors.New("lemma name is required")
	ErrDuplicateSynset = errors.New("duplicate synset id")
	ErrUnknownTarget   = errors.New("unknown relation target")
)

// LemmaKey returns the key that identifies a lemma across the lexicon.
// Synset IDs never contain ':' so the key splits unambiguously on the first one.
func LemmaKey(synsetID, name string) string {
	return synsetID + ":" + name
}

// SplitLemmaKey is the inverse of LemmaKey.
func SplitLemmaKey(key string) (synsetID, name string, ok bool) {
	return strings.Cut(key, ":")
}

// Validate checks the record's required fields.
func (r *SynsetRecord) Validate() error {
	if r.ID == "" {
		return ErrEmptySynsetID
	}
	for i, l := range r.Lemmas {
		if l.Name == "" {
			return fmt.Errorf("synset %s lemma %d: %w", r.ID, i, ErrEmptyLemmaName)
		}
	}
	return nil
}

// Resource is the lookup contract the traversal engine consumes.
// Implementations are read-only and side-effect free.
type Resource interface {
	// Lemmas returns the lemmas whose name is exactly word.
	Lemmas(word string) []LemmaID
	// Synsets returns the synsets word belongs to.
	Synsets(word string) []SynsetID
	// SynsetLemmas returns the lemmas grouped by a synset.
	SynsetLemmas(s SynsetID) []LemmaID
	// RelatedSynsets follows a synset relation edge.
	RelatedSynsets(s SynsetID, relation string) []SynsetID
	// RelatedLemmas follows a lemma relation edge.
	RelatedLemmas(l LemmaID, relation string) []LemmaID
	// PartOfSpeech returns the tag of the lemma's synset.
	PartOfSpeech(l LemmaID) string
	// LemmaName returns the word form of a lemma.
	LemmaName(l LemmaID) string
}
