// Package relcsv reads and writes relation CSV files.
//
// Two layouts exist. The by-pair layout has one row per word pair:
//
//	word1,word2,relation1,relation2,...
//
// The simple layout has one row per relation:
//
//	word1,relation,word2
//
// The relation name "none" marks a pair without relations and is dropped on read.
// Word list files without relations (pivot,candidate1,candidate2,...) are read
// with ReadWordLists.
package relcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/matsen/lexrel/internal/vocab"
)

// None is the no-relation sentinel.
const None = "none"

// Record is a word pair with the relations holding from Word1 to Word2.
type Record struct {
	Word1     string
	Word2     string
	Relations []string
}

// ParseError reports a malformed row.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errShortRow = errors.New("row has too few fields")

// ReadPairs streams by-pair records from r. name is used in errors.
// Iteration stops after the first error.
func ReadPairs(r io.Reader, name string) iter.Seq2[Record, error] {
	return scan(r, name, 2, func(row []string) Record {
		return Record{Word1: row[0], Word2: row[1], Relations: dropNone(row[2:])}
	})
}

// ReadSimple streams simple-layout rows as single-relation records.
// A "none" row yields a record without relations.
func ReadSimple(r io.Reader, name string) iter.Seq2[Record, error] {
	return scan(r, name, 3, func(row []string) Record {
		return Record{Word1: row[0], Word2: row[2], Relations: dropNone(row[1:2])}
	})
}

// PairsFile is ReadPairs over a file. The file is closed when iteration ends.
func PairsFile(path string) iter.Seq2[Record, error] {
	return fromFile(path, ReadPairs)
}

// SimpleFile is ReadSimple over a file.
func SimpleFile(path string) iter.Seq2[Record, error] {
	return fromFile(path, ReadSimple)
}

// ReadWordLists streams rows of pivot,candidate,... word lists. Every row
// needs a pivot and at least one candidate.
func ReadWordLists(r io.Reader, name string) iter.Seq2[[]string, error] {
	return scan(r, name, 2, func(row []string) []string { return slices.Clone(row) })
}

// WordListsFile is ReadWordLists over a file.
func WordListsFile(path string) iter.Seq2[[]string, error] {
	return fromFile(path, ReadWordLists)
}

func fromFile[T any](path string, read func(io.Reader, string) iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			var zero T
			yield(zero, fmt.Errorf("opening %s: %w", path, err))
			return
		}
		defer f.Close()
		for rec, err := range read(f, path) {
			if !yield(rec, err) {
				return
			}
		}
	}
}

func scan[T any](r io.Reader, name string, minFields int, convert func([]string) T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true
		for {
			row, err := cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var line int
				var pe *csv.ParseError
				if errors.As(err, &pe) {
					line = pe.Line
				}
				yield(zero, &ParseError{File: name, Line: line, Err: err})
				return
			}
			line, _ := cr.FieldPos(0)
			if len(row) < minFields {
				yield(zero, &ParseError{File: name, Line: line, Err: fmt.Errorf("%w: got %d, want at least %d", errShortRow, len(row), minFields)})
				return
			}
			if !yield(convert(row), nil) {
				return
			}
		}
	}
}

func dropNone(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != None && n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Writer writes relation rows.
type Writer struct {
	w    *csv.Writer
	rows int
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WritePair writes a by-pair row.
func (w *Writer) WritePair(word1, word2 string, relations []string) error {
	row := make([]string, 0, 2+len(relations))
	row = append(row, word1, word2)
	row = append(row, relations...)
	return w.write(row)
}

// WriteSimple writes a simple-layout row.
func (w *Writer) WriteSimple(word1, relation, word2 string) error {
	return w.write([]string{word1, relation, word2})
}

// WriteRow writes an arbitrary row.
func (w *Writer) WriteRow(row []string) error {
	return w.write(row)
}

func (w *Writer) write(row []string) error {
	if err := w.w.Write(row); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int { return w.rows }

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// ReadRelationList reads relation names, one per line, in tensor index order.
func ReadRelationList(path string) ([]string, error) {
	names, err := vocab.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading relation list: %w", err)
	}
	return names, nil
}

// WriteRelationList writes relation names, one per line.
func WriteRelationList(path string, names []string) error {
	return vocab.WriteFile(path, names)
}
