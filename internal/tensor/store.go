package tensor

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matsen/lexrel/internal/npz"
	"github.com/matsen/lexrel/internal/relcsv"
	"golang.org/x/crypto/blake2b"
)

// File names written next to each other in an output directory.
const (
	ArrayKey      = "relations"
	FileName      = "relations.npz"
	RelationsFile = "relations.txt"
	ManifestFile  = "relations.manifest.json"
)

// Save writes the tensor under ArrayKey.
func Save(path string, t *Tensor) error {
	return npz.Save(path, func(w *npz.Writer) error {
		return w.AddBool(ArrayKey, t.Shape(), t.data)
	})
}

// Load reads a tensor and names its relations. The third dimension must equal
// len(relations).
func Load(path string, relations []string) (*Tensor, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	h, data, err := r.Bool(ArrayKey)
	if err != nil {
		return nil, err
	}
	if len(h.Shape) != 3 {
		return nil, fmt.Errorf("%w: %s has %d dimensions, want 3", ErrShapeMismatch, path, len(h.Shape))
	}
	if h.Shape[2] != len(relations) {
		return nil, fmt.Errorf("%w: %s holds %d relation types, relation list has %d",
			ErrShapeMismatch, path, h.Shape[2], len(relations))
	}
	return &Tensor{n1: h.Shape[0], n2: h.Shape[1], relations: relations, data: data}, nil
}

// LoadDir loads FileName using the relation list stored beside it.
func LoadDir(dir string) (*Tensor, error) {
	relations, err := relcsv.ReadRelationList(filepath.Join(dir, RelationsFile))
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, FileName), relations)
}

// VocabInfo identifies a vocabulary used to build a tensor.
type VocabInfo struct {
	Path        string `json:"path"`
	Size        int    `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

// Manifest records what a tensor was built from, so later runs can tell when
// it must be rebuilt.
type Manifest struct {
	RunID       string     `json:"run_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Source      string     `json:"source"`
	Vocab1      VocabInfo  `json:"vocab1"`
	Vocab2      VocabInfo  `json:"vocab2"`
	Relations   []string   `json:"relations"`
	RelationsFP string     `json:"relations_fingerprint"`
	Shape       []int      `json:"shape"`
	Stats       BuildStats `json:"stats"`
}

// Fingerprint hashes an ordered word list with BLAKE2b-256.
func Fingerprint(words []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(words, "\n")))
	return hex.EncodeToString(sum[:])
}

// NewManifest describes a freshly built tensor.
func NewManifest(source string, v1Path string, v1 []string, v2Path string, v2 []string, t *Tensor, stats BuildStats) Manifest {
	return Manifest{
		RunID:       uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Source:      source,
		Vocab1:      VocabInfo{Path: v1Path, Size: len(v1), Fingerprint: Fingerprint(v1)},
		Vocab2:      VocabInfo{Path: v2Path, Size: len(v2), Fingerprint: Fingerprint(v2)},
		Relations:   t.Relations(),
		RelationsFP: Fingerprint(t.Relations()),
		Shape:       t.Shape(),
		Stats:       stats,
	}
}

// Check verifies the manifest still matches the given vocabularies and relations.
func (m Manifest) Check(v1, v2, relations []string) error {
	switch {
	case m.Vocab1.Fingerprint != Fingerprint(v1):
		return fmt.Errorf("%w: vocabulary 1 changed since run %s", ErrShapeMismatch, m.RunID)
	case m.Vocab2.Fingerprint != Fingerprint(v2):
		return fmt.Errorf("%w: vocabulary 2 changed since run %s", ErrShapeMismatch, m.RunID)
	case m.RelationsFP != Fingerprint(relations):
		return fmt.Errorf("%w: relation list changed since run %s", ErrShapeMismatch, m.RunID)
	}
	return nil
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest file.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// SaveDir writes the tensor, its relation list and its manifest into dir.
func SaveDir(dir string, t *Tensor, m Manifest) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := Save(filepath.Join(dir, FileName), t); err != nil {
		return err
	}
	if err := relcsv.WriteRelationList(filepath.Join(dir, RelationsFile), t.Relations()); err != nil {
		return err
	}
	return WriteManifest(filepath.Join(dir, ManifestFile), m)
}
