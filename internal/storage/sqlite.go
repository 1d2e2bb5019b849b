package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/lexrel/internal/lexicon"
	_ "modernc.org/sqlite"
)

// ErrLexiconNotFound is returned when the lexicon source file is missing.
var ErrLexiconNotFound = errors.New("lexicon not found")

// DB wraps a SQLite database connection holding the lexicon cache.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	// Create schema if needed
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS synsets (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			pos TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS lemmas (
			synset_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (synset_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_lemmas_name ON lemmas(name);

		CREATE TABLE IF NOT EXISTS synset_edges (
			source_id TEXT NOT NULL,
			relation TEXT NOT NULL,
			position INTEGER NOT NULL,
			target_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS lemma_edges (
			synset_id TEXT NOT NULL,
			name TEXT NOT NULL,
			relation TEXT NOT NULL,
			position INTEGER NOT NULL,
			target_key TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a lexicon JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadAllSynsets(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	if err := d.Replace(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Replace clears the database and inserts records in a single transaction.
func (d *DB) Replace(records []lexicon.SynsetRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"synsets", "lemmas", "synset_edges", "lemma_edges"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	synsetStmt, err := tx.Prepare(`INSERT INTO synsets (seq, id, pos) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing synsets insert: %w", err)
	}
	defer synsetStmt.Close()

	lemmaStmt, err := tx.Prepare(`INSERT INTO lemmas (synset_id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing lemmas insert: %w", err)
	}
	defer lemmaStmt.Close()

	synsetEdgeStmt, err := tx.Prepare(`
		INSERT INTO synset_edges (source_id, relation, position, target_id) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing synset_edges insert: %w", err)
	}
	defer synsetEdgeStmt.Close()

	lemmaEdgeStmt, err := tx.Prepare(`
		INSERT INTO lemma_edges (synset_id, name, relation, position, target_key) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing lemma_edges insert: %w", err)
	}
	defer lemmaEdgeStmt.Close()

	for seq, rec := range records {
		if _, err := synsetStmt.Exec(seq, rec.ID, rec.POS); err != nil {
			return fmt.Errorf("inserting synset %s: %w", rec.ID, err)
		}
		for rel, targets := range rec.Relations {
			for i, target := range targets {
				if _, err := synsetEdgeStmt.Exec(rec.ID, rel, i, target); err != nil {
					return fmt.Errorf("inserting edge %s %s: %w", rec.ID, rel, err)
				}
			}
		}
		for pos, l := range rec.Lemmas {
			if _, err := lemmaStmt.Exec(rec.ID, pos, l.Name); err != nil {
				return fmt.Errorf("inserting lemma %s: %w", lexicon.LemmaKey(rec.ID, l.Name), err)
			}
			for rel, targets := range l.Relations {
				for i, target := range targets {
					if _, err := lemmaEdgeStmt.Exec(rec.ID, l.Name, rel, i, target); err != nil {
						return fmt.Errorf("inserting lemma edge %s %s: %w", l.Name, rel, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// LoadRecords reads every synset back out of the database in insertion order.
func (d *DB) LoadRecords() ([]lexicon.SynsetRecord, error) {
	rows, err := d.db.Query(`SELECT id, pos FROM synsets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying synsets: %w", err)
	}
	var records []lexicon.SynsetRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec lexicon.SynsetRecord
		if err := rows.Scan(&rec.ID, &rec.POS); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning synset: %w", err)
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating synsets: %w", err)
	}

	lemmaPos := make(map[string]int)
	if err := d.each(`SELECT synset_id, name FROM lemmas ORDER BY synset_id, position`, func(rows *sql.Rows) error {
		var synsetID, name string
		if err := rows.Scan(&synsetID, &name); err != nil {
			return err
		}
		rec := &records[index[synsetID]]
		lemmaPos[lexicon.LemmaKey(synsetID, name)] = len(rec.Lemmas)
		rec.Lemmas = append(rec.Lemmas, lexicon.LemmaRecord{Name: name})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading lemmas: %w", err)
	}

	if err := d.each(`SELECT source_id, relation, target_id FROM synset_edges ORDER BY source_id, relation, position`, func(rows *sql.Rows) error {
		var source, rel, target string
		if err := rows.Scan(&source, &rel, &target); err != nil {
			return err
		}
		rec := &records[index[source]]
		if rec.Relations == nil {
			rec.Relations = make(map[string][]string)
		}
		rec.Relations[rel] = append(rec.Relations[rel], target)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading synset edges: %w", err)
	}

	if err := d.each(`SELECT synset_id, name, relation, target_key FROM lemma_edges ORDER BY synset_id, name, relation, position`, func(rows *sql.Rows) error {
		var synsetID, name, rel, target string
		if err := rows.Scan(&synsetID, &name, &rel, &target); err != nil {
			return err
		}
		l := &records[index[synsetID]].Lemmas[lemmaPos[lexicon.LemmaKey(synsetID, name)]]
		if l.Relations == nil {
			l.Relations = make(map[string][]string)
		}
		l.Relations[rel] = append(l.Relations[rel], target)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading lemma edges: %w", err)
	}

	return records, nil
}

func (d *DB) each(query string, fn func(*sql.Rows) error) error {
	rows, err := d.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// WordSense is one (synset, pos) a word belongs to.
type WordSense struct {
	SynsetID string   `json:"synset_id"`
	POS      string   `json:"pos"`
	Lemmas   []string `json:"lemmas"`
}

// WordSenses returns the synsets a word belongs to, with their lemma names.
func (d *DB) WordSenses(word string) ([]WordSense, error) {
	rows, err := d.db.Query(`
		SELECT DISTINCT s.seq, s.id, s.pos
		FROM lemmas l
		JOIN synsets s ON s.id = l.synset_id
		WHERE l.name = ?
		ORDER BY s.seq
	`, word)
	if err != nil {
		return nil, fmt.Errorf("querying senses of %q: %w", word, err)
	}

	var senses []WordSense
	for rows.Next() {
		var seq int
		var ws WordSense
		if err := rows.Scan(&seq, &ws.SynsetID, &ws.POS); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sense: %w", err)
		}
		senses = append(senses, ws)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating senses: %w", err)
	}

	for i := range senses {
		lemmaRows, err := d.db.Query(`SELECT name FROM lemmas WHERE synset_id = ? ORDER BY position`, senses[i].SynsetID)
		if err != nil {
			return nil, fmt.Errorf("querying lemmas of %s: %w", senses[i].SynsetID, err)
		}
		for lemmaRows.Next() {
			var name string
			if err := lemmaRows.Scan(&name); err != nil {
				lemmaRows.Close()
				return nil, fmt.Errorf("scanning lemma: %w", err)
			}
			senses[i].Lemmas = append(senses[i].Lemmas, name)
		}
		lemmaRows.Close()
		if err := lemmaRows.Err(); err != nil {
			return nil, err
		}
	}
	return senses, nil
}

// Count returns the number of synsets in the database.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM synsets`).Scan(&n)
	return n, err
}

// LoadGraph builds the in-memory lexicon from the database.
func (d *DB) LoadGraph() (*lexicon.Graph, error) {
	records, err := d.LoadRecords()
	if err != nil {
		return nil, err
	}
	return lexicon.NewGraph(records)
}

// IsStale reports whether the cache at dbPath is missing or older than the
// JSONL source at jsonlPath.
func IsStale(jsonlPath, dbPath string) (bool, error) {
	src, err := os.Stat(jsonlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrLexiconNotFound, jsonlPath)
		}
		return false, err
	}
	cache, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return cache.ModTime().Before(src.ModTime()), nil
}

// OpenLexicon loads the lexicon graph through the SQLite cache at dbPath,
// rebuilding the cache from jsonlPath first when it is stale.
// The returned bool reports whether a rebuild happened.
func OpenLexicon(jsonlPath, dbPath string) (*lexicon.Graph, bool, error) {
	stale, err := IsStale(jsonlPath, dbPath)
	if err != nil {
		return nil, false, err
	}

	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	if stale {
		if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
			return nil, false, fmt.Errorf("rebuilding lexicon cache: %w", err)
		}
	}

	g, err := db.LoadGraph()
	if err != nil {
		return nil, stale, fmt.Errorf("loading lexicon: %w", err)
	}
	return g, stale, nil
}
