package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DataFiles lists the WordNet database files read by ImportDict, in order.
var DataFiles = []string{"data.noun", "data.verb", "data.adj", "data.adv"}

// pointerRelations maps WordNet pointer symbols to relation names.
// Symbols without an entry (participles, domain members) are ignored.
var pointerRelations = map[string]string{
	"!":  "antonyms",
	"@":  "hypernyms",
	"@i": "instance_hypernyms",
	"~":  "hyponyms",
	"~i": "instance_hyponyms",
	"#m": "member_holonyms",
	"#s": "substance_holonyms",
	"#p": "part_holonyms",
	"%m": "member_meronyms",
	"%s": "substance_meronyms",
	"%p": "part_meronyms",
	"=":  "attributes",
	"+":  "derivationally_related_forms",
	";c": "topic_domains",
	";r": "region_domains",
	";u": "usage_domains",
	"*":  "entailments",
	">":  "causes",
	"^":  "also_sees",
	"$":  "verb_groups",
	"&":  "similar_tos",
	`\`:  "pertainyms",
}

// lexicalPointer is a word-to-word pointer whose target lemma is resolved
// after every data file has been read.
type lexicalPointer struct {
	record     int
	sourceWord int
	relation   string
	target     string
	targetWord int
	line       int
	file       string
}

// ImportDict reads the WordNet data files found in dir.
// Missing data files are skipped; at least one must exist.
func ImportDict(dir string) ([]SynsetRecord, error) {
	var (
		records []SynsetRecord
		pending []lexicalPointer
		found   int
	)
	for _, name := range DataFiles {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		found++
		recs, ptrs, err := parseDataFile(f, path, len(records))
		f.Close()
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
		pending = append(pending, ptrs...)
	}
	if found == 0 {
		return nil, fmt.Errorf("no WordNet data files in %s", dir)
	}

	if err := resolveLexicalPointers(records, pending); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseDataFile parses a single WordNet data file. Lexical pointers whose
// target lies outside the file are dropped.
func ParseDataFile(r io.Reader, name string) ([]SynsetRecord, error) {
	records, pending, err := parseDataFile(r, name, 0)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.ID] = i
	}
	local := pending[:0]
	for _, p := range pending {
		if _, ok := index[p.target]; ok {
			local = append(local, p)
		}
	}
	if err := resolveLexicalPointers(records, local); err != nil {
		return nil, err
	}
	return records, nil
}

func parseDataFile(r io.Reader, name string, base int) ([]SynsetRecord, []lexicalPointer, error) {
	var (
		records []SynsetRecord
		pending []lexicalPointer
	)
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || line[0] == ' ' {
			continue // License header
		}
		rec, ptrs, err := parseDataLine(line)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", name, lineNum, err)
		}
		for i := range ptrs {
			ptrs[i].record = base + len(records)
			ptrs[i].line = lineNum
			ptrs[i].file = name
		}
		records = append(records, rec)
		pending = append(pending, ptrs...)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return records, pending, nil
}

// parseDataLine parses
//
//	offset lex_filenum ss_type w_cnt word lex_id [word lex_id...] p_cnt [ptr...] [frames...] | gloss
func parseDataLine(line string) (SynsetRecord, []lexicalPointer, error) {
	var rec SynsetRecord
	if i := strings.Index(line, " | "); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return rec, nil, fmt.Errorf("too few fields (%d)", len(fields))
	}
	ssType := fields[2]
	rec.POS = ssType
	rec.ID = synsetID(fields[0], ssType)

	wCnt, err := strconv.ParseInt(fields[3], 16, 32)
	if err != nil {
		return rec, nil, fmt.Errorf("word count %q: %w", fields[3], err)
	}
	pos := 4
	if len(fields) < pos+2*int(wCnt)+1 {
		return rec, nil, fmt.Errorf("truncated word list")
	}
	for i := 0; i < int(wCnt); i++ {
		rec.Lemmas = append(rec.Lemmas, LemmaRecord{Name: stripAdjectiveMarker(fields[pos])})
		pos += 2
	}

	pCnt, err := strconv.Atoi(fields[pos])
	if err != nil {
		return rec, nil, fmt.Errorf("pointer count %q: %w", fields[pos], err)
	}
	pos++
	if len(fields) < pos+4*pCnt {
		return rec, nil, fmt.Errorf("truncated pointer list")
	}

	var pending []lexicalPointer
	for i := 0; i < pCnt; i++ {
		symbol, offset, ptrPOS, srcTgt := fields[pos], fields[pos+1], fields[pos+2], fields[pos+3]
		pos += 4
		if len(srcTgt) != 4 {
			return rec, nil, fmt.Errorf("pointer source/target %q: want 4 hex digits", srcTgt)
		}
		relation, ok := pointerRelations[symbol]
		if !ok {
			continue
		}
		target := synsetID(offset, ptrPOS)
		if srcTgt == "0000" {
			if rec.Relations == nil {
				rec.Relations = make(map[string][]string)
			}
			rec.Relations[relation] = append(rec.Relations[relation], target)
			continue
		}
		src, err := strconv.ParseInt(srcTgt[:2], 16, 32)
		if err != nil {
			return rec, nil, fmt.Errorf("pointer source %q: %w", srcTgt, err)
		}
		tgt, err := strconv.ParseInt(srcTgt[2:], 16, 32)
		if err != nil {
			return rec, nil, fmt.Errorf("pointer target %q: %w", srcTgt, err)
		}
		pending = append(pending, lexicalPointer{
			sourceWord: int(src),
			relation:   relation,
			target:     target,
			targetWord: int(tgt),
		})
	}
	return rec, pending, nil
}

func resolveLexicalPointers(records []SynsetRecord, pending []lexicalPointer) error {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.ID] = i
	}
	for _, p := range pending {
		src := &records[p.record]
		ti, ok := index[p.target]
		if !ok {
			return fmt.Errorf("%s line %d: pointer to %s: %w", p.file, p.line, p.target, ErrUnknownTarget)
		}
		tgt := records[ti]
		if p.sourceWord < 1 || p.sourceWord > len(src.Lemmas) || p.targetWord < 1 || p.targetWord > len(tgt.Lemmas) {
			return fmt.Errorf("%s line %d: word number out of range", p.file, p.line)
		}
		lemma := &src.Lemmas[p.sourceWord-1]
		if lemma.Relations == nil {
			lemma.Relations = make(map[string][]string)
		}
		key := LemmaKey(tgt.ID, tgt.Lemmas[p.targetWord-1].Name)
		lemma.Relations[p.relation] = append(lemma.Relations[p.relation], key)
	}
	return nil
}

// synsetID builds "<offset>-<pos>". Adjective satellites live in data.adj and
// share its offset space, so they are keyed under "a".
func synsetID(offset, pos string) string {
	if pos == "s" {
		pos = "a"
	}
	return offset + "-" + pos
}

// stripAdjectiveMarker removes syntactic markers such as "(a)", "(p)", "(ip)".
func stripAdjectiveMarker(word string) string {
	if strings.HasSuffix(word, ")") {
		if i := strings.LastIndexByte(word, '('); i > 0 {
			return word[:i]
		}
	}
	return word
}
