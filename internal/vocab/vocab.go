// Package vocab reads word lists and assigns each word a stable index.
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
)

// ErrDuplicateWord is returned when a word list contains the same word twice.
var ErrDuplicateWord = errors.New("duplicate word in vocabulary")

// Enumeration maps the words of a vocabulary to their line position.
type Enumeration struct {
	words []string
	index map[string]int
}

// NewEnumeration indexes words in order. Duplicate words are an error.
func NewEnumeration(words []string) (*Enumeration, error) {
	e := &Enumeration{
		words: make([]string, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for _, w := range words {
		if first, ok := e.index[w]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateWord, w, first, len(e.words))
		}
		e.index[w] = len(e.words)
		e.words = append(e.words, w)
	}
	return e, nil
}

// Len returns the number of words.
func (e *Enumeration) Len() int { return len(e.words) }

// Index returns the position of word.
func (e *Enumeration) Index(word string) (int, bool) {
	i, ok := e.index[word]
	return i, ok
}

// Contains reports whether word is in the vocabulary.
func (e *Enumeration) Contains(word string) bool {
	_, ok := e.index[word]
	return ok
}

// Word returns the word at position i.
func (e *Enumeration) Word(i int) string { return e.words[i] }

// Words returns the words in order. The slice must not be modified.
func (e *Enumeration) Words() []string { return e.words }

// Read returns the trimmed, non-blank lines of r.
func Read(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ReadFile reads a word list, one word per line.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	words, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return words, nil
}

// LoadEnumeration reads a word list file and indexes it.
func LoadEnumeration(path string) (*Enumeration, error) {
	words, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, err := NewEnumeration(words)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// WriteFile writes words one per line.
func WriteFile(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		if _, err := fmt.Fprintln(w, word); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// FilterKnown keeps the words accepted by known, in order, without repeats.
func FilterKnown(words []string, known func(string) bool) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if seen[w] || !known(w) {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Intersect returns the words present in every list, in the order of the first.
func Intersect(lists ...[]string) []string {
	if len(lists) == 0 {
		return nil
	}
	sets := make([]map[string]bool, len(lists)-1)
	for i, other := range lists[1:] {
		sets[i] = make(map[string]bool, len(other))
		for _, w := range other {
			sets[i][w] = true
		}
	}
	return FilterKnown(lists[0], func(w string) bool {
		for _, set := range sets {
			if !set[w] {
				return false
			}
		}
		return true
	})
}

// Sample picks n words uniformly without replacement, keeping their original
// order. The same seed always selects the same words.
func Sample(words []string, n int, seed uint64) []string {
	picked := SampleIndices(len(words), n, seed)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = words[idx]
	}
	return out
}

// SampleIndices picks n of the positions 0..total-1 in ascending order.
func SampleIndices(total, n int, seed uint64) []int {
	if n >= total {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	picked := rng.Perm(total)[:n]
	slices.Sort(picked)
	return picked
}
