package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/lexrel/internal/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []lexicon.SynsetRecord {
	return []lexicon.SynsetRecord{
		{ID: "canine-n", POS: "n", Lemmas: []lexicon.LemmaRecord{{Name: "canine"}, {Name: "canid"}},
			Relations: map[string][]string{"hyponyms": {"dog-n", "wolf-n"}}},
		{ID: "dog-n", POS: "n", Lemmas: []lexicon.LemmaRecord{{Name: "dog"}},
			Relations: map[string][]string{"hypernyms": {"canine-n"}}},
		{ID: "wolf-n", POS: "n", Lemmas: []lexicon.LemmaRecord{{Name: "wolf"}},
			Relations: map[string][]string{"hypernyms": {"canine-n"}}},
		{ID: "hot-a", POS: "a", Lemmas: []lexicon.LemmaRecord{{Name: "hot",
			Relations: map[string][]string{"antonyms": {"cold-a:cold"}}}}},
		{ID: "cold-a", POS: "a", Lemmas: []lexicon.LemmaRecord{{Name: "cold",
			Relations: map[string][]string{"antonyms": {"hot-a:hot"}}}}},
	}
}

// setupTestDB creates a test database and JSONL file with test data
func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "lexicon.db")
	jsonlPath := filepath.Join(tmpDir, "lexicon.jsonl")

	require.NoError(t, WriteAllSynsets(jsonlPath, testRecords()))

	db, err := OpenDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, jsonlPath
}

func TestRebuildFromJSONL(t *testing.T) {
	db, jsonlPath := setupTestDB(t)

	n, err := db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	count, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// Rebuilding twice must not duplicate rows
	_, err = db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)
	count, err = db.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestLoadRecords_RoundTrip(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	_, err := db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)

	records, err := db.LoadRecords()
	require.NoError(t, err)
	assert.Equal(t, testRecords(), records)
}

func TestLoadGraph(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	_, err := db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)

	g, err := db.LoadGraph()
	require.NoError(t, err)

	dog := g.Synsets("dog")
	require.Len(t, dog, 1)
	hyper := g.RelatedSynsets(dog[0], "hypernyms")
	require.Len(t, hyper, 1)
	assert.Equal(t, "canine-n", g.SynsetName(hyper[0]))
}

func TestWordSenses(t *testing.T) {
	db, jsonlPath := setupTestDB(t)
	_, err := db.RebuildFromJSONL(jsonlPath)
	require.NoError(t, err)

	senses, err := db.WordSenses("canid")
	require.NoError(t, err)
	require.Len(t, senses, 1)
	assert.Equal(t, "canine-n", senses[0].SynsetID)
	assert.Equal(t, []string{"canine", "canid"}, senses[0].Lemmas)

	senses, err = db.WordSenses("unicorn")
	require.NoError(t, err)
	assert.Empty(t, senses)
}

func TestOpenLexicon(t *testing.T) {
	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "lexicon.jsonl")
	dbPath := filepath.Join(tmpDir, "lexicon.db")

	_, _, err := OpenLexicon(jsonlPath, dbPath)
	assert.True(t, errors.Is(err, ErrLexiconNotFound))

	require.NoError(t, WriteAllSynsets(jsonlPath, testRecords()))

	g, rebuilt, err := OpenLexicon(jsonlPath, dbPath)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.True(t, g.Known("wolf"))

	// Push the cache into the future so it counts as fresh.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(dbPath, future, future))

	_, rebuilt, err = OpenLexicon(jsonlPath, dbPath)
	require.NoError(t, err)
	assert.False(t, rebuilt)
}

func TestReadAllSynsets_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"x-n\"}\n\nnot json\n"), 0644))

	_, err := ReadAllSynsets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
