// Package relation enumerates the words related to a pivot word through the
// lexical graph and resolves which relations hold between word pairs.
package relation

import (
	"fmt"
	"strings"
)

// Type names a relation between two words.
type Type string

// Unique relations. When one of these holds for a pair no other relation is
// reported for it.
const (
	Identity Type = "identity"
	Synonyms Type = "synonyms"
)

// Hierarchical synset relations, listed so that each relation is followed by its inverse.
const (
	Hypernyms         Type = "hypernyms"
	Hyponyms          Type = "hyponyms"
	MemberHolonyms    Type = "member_holonyms"
	MemberMeronyms    Type = "member_meronyms"
	PartHolonyms      Type = "part_holonyms"
	PartMeronyms      Type = "part_meronyms"
	SubstanceHolonyms Type = "substance_holonyms"
	SubstanceMeronyms Type = "substance_meronyms"
)

// Other synset relations.
const (
	Entailments       Type = "entailments"
	InstanceHypernyms Type = "instance_hypernyms"
	InstanceHyponyms  Type = "instance_hyponyms"
	TopicDomains      Type = "topic_domains"
	RegionDomains     Type = "region_domains"
	UsageDomains      Type = "usage_domains"
	Attributes        Type = "attributes"
	Causes            Type = "causes"
	AlsoSees          Type = "also_sees"
	VerbGroups        Type = "verb_groups"
	SimilarTos        Type = "similar_tos"
)

// Lemma relations.
const (
	Antonyms                   Type = "antonyms"
	Pertainyms                 Type = "pertainyms"
	DerivationallyRelatedForms Type = "derivationally_related_forms"
)

// Prefixes of derived relations.
const (
	IndirectPrefix = "indirect_"
	CoPrefix       = "co_"
)

// None is the sentinel written for pairs without any relation.
const None = "none"

// DefaultDepth bounds the closure of indirect relations.
const DefaultDepth = 20

var (
	// SynsetRelations are the hierarchical relations; indirect and co- relations derive from them.
	SynsetRelations = []Type{
		Hypernyms, Hyponyms,
		MemberHolonyms, MemberMeronyms,
		PartHolonyms, PartMeronyms,
		SubstanceHolonyms, SubstanceMeronyms,
	}

	OtherSynsetRelations = []Type{
		Entailments, InstanceHypernyms, InstanceHyponyms,
		TopicDomains, RegionDomains, UsageDomains,
		Attributes, Causes, AlsoSees, VerbGroups, SimilarTos,
	}

	LemmaRelations = []Type{Antonyms, Pertainyms, DerivationallyRelatedForms}

	UniqueRelations = []Type{Identity, Synonyms}
)

// Indirect returns the bounded-closure relation derived from t.
func Indirect(t Type) Type {
	return Type(IndirectPrefix + string(t))
}

// Co returns the co-relation derived from t.
func Co(t Type) Type {
	return Type(CoPrefix + string(t))
}

// Inverse returns the inverse of a hierarchical synset relation.
func Inverse(t Type) (Type, bool) {
	for i, r := range SynsetRelations {
		if r == t {
			return SynsetRelations[i^1], true
		}
	}
	return "", false
}

// IsUnique reports whether t suppresses other relations for the same pair.
func (t Type) IsUnique() bool {
	return t == Identity || t == Synonyms
}

// Base strips the indirect_ or co_ prefix.
func (t Type) Base() Type {
	s := string(t)
	s = strings.TrimPrefix(s, IndirectPrefix)
	s = strings.TrimPrefix(s, CoPrefix)
	return Type(s)
}

// All returns every relation type in traversal order: identity, synonyms,
// synset relations, other synset relations, indirect_ relations, lemma
// relations, co_ relations.
func All() []Type {
	out := make([]Type, 0, 2+3*len(SynsetRelations)+len(OtherSynsetRelations)+len(LemmaRelations))
	out = append(out, Identity, Synonyms)
	out = append(out, SynsetRelations...)
	out = append(out, OtherSynsetRelations...)
	for _, r := range SynsetRelations {
		out = append(out, Indirect(r))
	}
	out = append(out, LemmaRelations...)
	for _, r := range SynsetRelations {
		out = append(out, Co(r))
	}
	return out
}

// Direct returns the relations that need no closure or composition.
func Direct() []Type {
	out := []Type{Synonyms}
	out = append(out, SynsetRelations...)
	out = append(out, OtherSynsetRelations...)
	return append(out, LemmaRelations...)
}

// Parse validates a relation name.
func Parse(name string) (Type, error) {
	for _, t := range All() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown relation %q", name)
}

// ParseAll validates a list of relation names.
func ParseAll(names []string) ([]Type, error) {
	out := make([]Type, 0, len(names))
	for _, n := range names {
		t, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Names converts relation types to strings.
func Names(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// Singular returns the name with all trailing 's' characters removed, as used
// in the simple relation listing (hypernyms -> hypernym, also_sees -> also_see).
func (t Type) Singular() string {
	return strings.TrimRight(string(t), "s")
}
