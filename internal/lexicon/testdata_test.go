package lexicon

// sampleRecords is a tiny lexicon used across tests:
//
//	animal <- canine <- dog -> (member of) pack
//	canine <- wolf
//	hot <-antonym-> cold
func sampleRecords() []SynsetRecord {
	return []SynsetRecord{
		{ID: "animal-n", POS: "n", Lemmas: []LemmaRecord{{Name: "animal"}, {Name: "beast"}},
			Relations: map[string][]string{"hyponyms": {"canine-n"}}},
		{ID: "canine-n", POS: "n", Lemmas: []LemmaRecord{{Name: "canine"}},
			Relations: map[string][]string{"hypernyms": {"animal-n"}, "hyponyms": {"dog-n", "wolf-n"}}},
		{ID: "dog-n", POS: "n", Lemmas: []LemmaRecord{{Name: "dog"}, {Name: "domestic_dog"}},
			Relations: map[string][]string{"hypernyms": {"canine-n"}, "member_holonyms": {"pack-n"}}},
		{ID: "wolf-n", POS: "n", Lemmas: []LemmaRecord{{Name: "wolf"}},
			Relations: map[string][]string{"hypernyms": {"canine-n"}}},
		{ID: "pack-n", POS: "n", Lemmas: []LemmaRecord{{Name: "pack"}},
			Relations: map[string][]string{"member_meronyms": {"dog-n"}}},
		{ID: "hot-a", POS: "a", Lemmas: []LemmaRecord{{Name: "hot",
			Relations: map[string][]string{"antonyms": {"cold-a:cold"}}}}},
		{ID: "cold-a", POS: "a", Lemmas: []LemmaRecord{{Name: "cold",
			Relations: map[string][]string{"antonyms": {"hot-a:hot"}}}}},
	}
}
