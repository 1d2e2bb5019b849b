package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nounData = `  1 This software and database is being provided to you, the LICENSEE, by
  2 Princeton University under the following license.
00001740 03 n 01 entity 0 001 ~ 00002137 n 0000 | that which exists
00002137 03 n 02 abstraction 0 abstract_entity 0 002 @ 00001740 n 0000 ! 00002200 n 0101 | a general concept
00002200 03 n 01 concreteness 0 000 | the quality of being concrete
`

const adjData = `00001740 00 a 01 able 0 002 ! 00002098 a 0101 \ 00002137 n 0102 | having the power
00002098 00 a 01 unable(p) 0 001 ! 00001740 a 0101 | not able
00002300 00 s 01 capable 0 001 & 00001740 a 0000 | having capacity
`

func TestParseDataFile(t *testing.T) {
	records, err := ParseDataFile(strings.NewReader(nounData), "data.noun")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "00001740-n", records[0].ID)
	assert.Equal(t, []string{"00002137-n"}, records[0].Relations["hyponyms"])

	abstraction := records[1]
	require.Len(t, abstraction.Lemmas, 2)
	assert.Equal(t, "abstract_entity", abstraction.Lemmas[1].Name)
	assert.Equal(t, []string{"00001740-n"}, abstraction.Relations["hypernyms"])
	assert.Equal(t, []string{"00002200-n:concreteness"}, abstraction.Lemmas[0].Relations["antonyms"])
}

func TestParseDataLine_Malformed(t *testing.T) {
	_, err := ParseDataFile(strings.NewReader("00001740 03 n zz entity 0 000 | x\n"), "data.noun")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.noun line 1")
}

func TestParseDataLine_BadPointerField(t *testing.T) {
	tests := []struct {
		name   string
		srcTgt string
	}{
		{"short", "1"},
		{"long", "010203"},
		{"not hex", "01zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := "00001740 03 n 01 entity 0 001 ! 00002000 n " + tt.srcTgt + " | gloss\n"
			_, err := ParseDataFile(strings.NewReader(line), "data.noun")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "data.noun line 1")
			assert.Contains(t, err.Error(), tt.srcTgt)
		})
	}
}

func TestImportDict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.noun"), []byte(nounData), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.adj"), []byte(adjData), 0644))

	records, err := ImportDict(dir)
	require.NoError(t, err)
	require.Len(t, records, 6)

	g, err := NewGraph(records)
	require.NoError(t, err)

	able := g.Lemmas("able")
	require.Len(t, able, 1)
	ant := g.RelatedLemmas(able[0], "antonyms")
	require.Len(t, ant, 1)
	assert.Equal(t, "unable", g.LemmaName(ant[0]), "adjective marker stripped")

	pert := g.RelatedLemmas(able[0], "pertainyms")
	require.Len(t, pert, 1)
	assert.Equal(t, "abstract_entity", g.LemmaName(pert[0]), "cross-file lexical pointer resolved")

	capable := g.Lemmas("capable")
	require.Len(t, capable, 1)
	assert.Equal(t, "s", g.PartOfSpeech(capable[0]))
	similar := g.RelatedSynsets(g.LemmaSynset(capable[0]), "similar_tos")
	require.Len(t, similar, 1)
	assert.Equal(t, "00001740-a", g.SynsetName(similar[0]))
}

func TestImportDict_Empty(t *testing.T) {
	_, err := ImportDict(t.TempDir())
	require.Error(t, err)
}

func TestStripAdjectiveMarker(t *testing.T) {
	tests := []struct{ in, want string }{
		{"unable(p)", "unable"},
		{"elect(ip)", "elect"},
		{"plain", "plain"},
		{"(odd)", "(odd)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripAdjectiveMarker(tt.in), tt.in)
	}
}
