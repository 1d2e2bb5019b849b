package relcsv

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, seq func(func(Record, error) bool)) ([]Record, error) {
	t.Helper()
	var out []Record
	for rec, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func TestReadPairs(t *testing.T) {
	input := "dog,canine,synonyms,hypernyms\ncat,dog,none\nwolf,fox\n"
	got, err := collect(t, ReadPairs(strings.NewReader(input), "rel.csv"))
	require.NoError(t, err)

	want := []Record{
		{Word1: "dog", Word2: "canine", Relations: []string{"synonyms", "hypernyms"}},
		{Word1: "cat", Word2: "dog", Relations: []string{}},
		{Word1: "wolf", Word2: "fox", Relations: []string{}},
	}
	assert.Equal(t, want, got)
}

func TestReadPairs_ShortRow(t *testing.T) {
	input := "dog,canine,synonyms\nlonely\n"
	got, err := collect(t, ReadPairs(strings.NewReader(input), "rel.csv"))
	require.Error(t, err)
	assert.Len(t, got, 1)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "rel.csv", pe.File)
	assert.Equal(t, 2, pe.Line)
	assert.True(t, errors.Is(err, errShortRow))
}

func TestReadPairs_BadQuote(t *testing.T) {
	input := "dog,canine\ncat,d\"og\n"
	_, err := collect(t, ReadPairs(strings.NewReader(input), "rel.csv"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestReadSimple(t *testing.T) {
	input := "dog,hypernym,canine\ndog,none,cat\n"
	got, err := collect(t, ReadSimple(strings.NewReader(input), "simple.csv"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Record{Word1: "dog", Word2: "canine", Relations: []string{"hypernym"}}, got[0])
	assert.Empty(t, got[1].Relations)
}

func TestReadWordLists(t *testing.T) {
	var got [][]string
	for row, err := range ReadWordLists(strings.NewReader("dog,wolf,hound\ncat,feline\n"), "pairs.csv") {
		require.NoError(t, err)
		got = append(got, row)
	}
	assert.Equal(t, [][]string{{"dog", "wolf", "hound"}, {"cat", "feline"}}, got)
}

func TestReadWordLists_PivotOnly(t *testing.T) {
	var err error
	for _, err = range ReadWordLists(strings.NewReader("dog,wolf\ncat\n"), "pairs.csv") {
		if err != nil {
			break
		}
	}
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePair("dog", "canine", []string{"synonyms"}))
	require.NoError(t, w.WritePair("dog", "cat, the animal", []string{"co_hyponyms", "indirect_hypernyms"}))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Rows())

	got, err := collect(t, ReadPairs(&buf, "buf"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cat, the animal", got[1].Word2)
	assert.Equal(t, []string{"co_hyponyms", "indirect_hypernyms"}, got[1].Relations)
}

func TestPairsFile_Missing(t *testing.T) {
	_, err := collect(t, PairsFile(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, err)
}

func TestRelationList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relations.txt")
	require.NoError(t, WriteRelationList(path, []string{"hypernyms", "synonyms"}))

	got, err := ReadRelationList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hypernyms", "synonyms"}, got)
}
