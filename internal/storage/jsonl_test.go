package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/lexrel/internal/lexicon"
)

func TestReadAllSynsets_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	records, err := ReadAllSynsets(path)
	if err != nil {
		t.Fatalf("ReadAllSynsets() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadAllSynsets() returned %d records, want 0", len(records))
	}
}

func TestReadAllSynsets_NonExistentFile(t *testing.T) {
	_, err := ReadAllSynsets("/nonexistent/path/lexicon.jsonl")
	if !errors.Is(err, ErrLexiconNotFound) {
		t.Errorf("ReadAllSynsets() error = %v, want ErrLexiconNotFound", err)
	}
}

func TestReadAllSynsets_SkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.jsonl")
	content := `{"id":"dog-n","pos":"n","lemmas":[{"name":"dog"},{"name":"hound"}]}

{"id":"canine-n","pos":"n","lemmas":[{"name":"canine"}],"relations":{"hyponyms":["dog-n"]}}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	records, err := ReadAllSynsets(path)
	if err != nil {
		t.Fatalf("ReadAllSynsets() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ReadAllSynsets() returned %d records, want 2", len(records))
	}
	if got := records[0].Lemmas[1].Name; got != "hound" {
		t.Errorf("second lemma = %q, want hound", got)
	}
	if got := records[1].Relations["hyponyms"]; len(got) != 1 || got[0] != "dog-n" {
		t.Errorf("hyponyms = %v, want [dog-n]", got)
	}
}

func TestWriteAllSynsets_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.jsonl")

	if err := WriteAllSynsets(path, testRecords()); err != nil {
		t.Fatalf("WriteAllSynsets() error = %v", err)
	}
	replacement := []lexicon.SynsetRecord{{ID: "cat-n", POS: "n", Lemmas: []lexicon.LemmaRecord{{Name: "cat"}}}}
	if err := WriteAllSynsets(path, replacement); err != nil {
		t.Fatalf("WriteAllSynsets() error = %v", err)
	}

	records, err := ReadAllSynsets(path)
	if err != nil {
		t.Fatalf("ReadAllSynsets() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "cat-n" {
		t.Errorf("ReadAllSynsets() = %+v, want only cat-n", records)
	}
}

func TestWriteAllSynsets_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.jsonl")
	want := testRecords()

	if err := WriteAllSynsets(path, want); err != nil {
		t.Fatalf("WriteAllSynsets() error = %v", err)
	}
	got, err := ReadAllSynsets(path)
	if err != nil {
		t.Fatalf("ReadAllSynsets() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].POS != want[i].POS || len(got[i].Lemmas) != len(want[i].Lemmas) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if ant := got[3].Lemmas[0].Relations["antonyms"]; len(ant) != 1 || ant[0] != "cold-a:cold" {
		t.Errorf("antonyms of hot = %v, want [cold-a:cold]", ant)
	}
}
