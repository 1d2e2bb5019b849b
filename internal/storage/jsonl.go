// Package storage handles lexicon persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/lexrel/internal/lexicon"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAllSynsets reads all synset records from a JSONL file.
func ReadAllSynsets(path string) ([]lexicon.SynsetRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLexiconNotFound, path)
		}
		return nil, fmt.Errorf("opening lexicon file: %w", err)
	}
	defer f.Close()

	var records []lexicon.SynsetRecord
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec lexicon.SynsetRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%s: parsing line %d: %w", path, lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}

	return records, nil
}

// WriteAllSynsets writes all synset records to a JSONL file, replacing existing content.
func WriteAllSynsets(path string, records []lexicon.SynsetRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating lexicon file: %w", err)
	}

	w := bufio.NewWriter(f)
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding synset %d: %w", i, err)
		}

		if _, err := w.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("writing synset %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing lexicon file: %w", err)
	}
	return f.Close()
}
