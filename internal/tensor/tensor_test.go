package tensor

import (
	"errors"
	"iter"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/matsen/lexrel/internal/relcsv"
	"github.com/matsen/lexrel/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enum(t *testing.T, words ...string) *vocab.Enumeration {
	t.Helper()
	e, err := vocab.NewEnumeration(words)
	require.NoError(t, err)
	return e
}

func records(recs ...relcsv.Record) iter.Seq2[relcsv.Record, error] {
	return func(yield func(relcsv.Record, error) bool) {
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func TestBuild_SingleRecord(t *testing.T) {
	v1 := enum(t, "dog")
	v2 := enum(t, "canine", "cat")
	relations := []string{"hypernyms", "synonyms"}

	tn, stats, err := Build(v1, v2, relations, records(
		relcsv.Record{Word1: "dog", Word2: "canine", Relations: []string{"synonyms"}},
	))
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		for r := range relations {
			want := j == 0 && r == 1
			assert.Equal(t, want, tn.At(0, j, r), "cell (0,%d,%d)", j, r)
		}
	}
	assert.Equal(t, BuildStats{Records: 1, Kept: 1}, stats)
	assert.Equal(t, []int{0, 1}, tn.Counts())
}

func TestBuild_Swap(t *testing.T) {
	v1 := enum(t, "dog", "wolf")
	v2 := enum(t, "canine")

	tn, stats, err := Build(v1, v2, []string{"hyponyms"}, records(
		relcsv.Record{Word1: "canine", Word2: "wolf", Relations: []string{"hyponyms"}},
	))
	require.NoError(t, err)

	assert.True(t, tn.At(1, 0, 0))
	assert.False(t, tn.At(0, 0, 0))
	assert.Equal(t, 1, stats.Swapped)
}

func TestBuild_DropsUnknown(t *testing.T) {
	v1 := enum(t, "dog")
	v2 := enum(t, "canine")

	tn, stats, err := Build(v1, v2, []string{"synonyms"}, records(
		relcsv.Record{Word1: "dog", Word2: "griffin", Relations: []string{"synonyms"}},
		relcsv.Record{Word1: "unicorn", Word2: "canine", Relations: []string{"synonyms"}},
		relcsv.Record{Word1: "dog", Word2: "canine", Relations: []string{"antonyms"}},
	))
	require.NoError(t, err)

	assert.Zero(t, tn.Count(0))
	assert.Equal(t, BuildStats{Records: 3, Kept: 1, Dropped: 2, UnknownRelations: 1}, stats)
}

func TestBuild_ReadError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(relcsv.Record, error) bool) {
		yield(relcsv.Record{}, boom)
	}
	_, _, err := Build(enum(t, "a"), enum(t, "b"), []string{"x"}, seq)
	assert.True(t, errors.Is(err, boom))
}

func TestNewBuilder_DuplicateRelation(t *testing.T) {
	_, err := NewBuilder(enum(t, "a"), enum(t, "b"), []string{"x", "x"})
	assert.Error(t, err)
}

func TestDeriveRelations(t *testing.T) {
	csv := "dog,canine,synonyms,hypernyms\ncat,dog,none\nwolf,dog,co_hyponyms,hypernyms\n"
	got, err := DeriveRelations(relcsv.ReadPairs(strings.NewReader(csv), "rel.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"co_hyponyms", "hypernyms", "synonyms"}, got)
}

func TestPairsAndMask(t *testing.T) {
	tn := New(2, 2, []string{"r0", "r1"})
	tn.Set(1, 0, 1)
	tn.Set(0, 1, 1)

	var got [][2]int
	for i, j := range tn.Pairs(1) {
		got = append(got, [2]int{i, j})
	}
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}}, got)
	assert.Equal(t, []bool{false, true, true, false}, tn.Mask(1))

	idx, ok := tn.RelationIndex("r1")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	tn := New(2, 3, []string{"hypernyms", "synonyms"})
	tn.Set(0, 2, 1)
	tn.Set(1, 0, 0)

	m := NewManifest("relations.csv", "v1.txt", []string{"dog", "cat"}, "v2.txt", []string{"a", "b", "c"}, tn, BuildStats{Records: 2})
	require.NoError(t, SaveDir(dir, tn, m))

	loaded, err := LoadDir(dir)
	require.NoError(t, err)
	assert.True(t, tn.Equal(loaded))

	read, err := ReadManifest(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, m.RunID, read.RunID)
	assert.Equal(t, []int{2, 3, 2}, read.Shape)
	require.NoError(t, read.Check([]string{"dog", "cat"}, []string{"a", "b", "c"}, tn.Relations()))

	err = read.Check([]string{"cat", "dog"}, []string{"a", "b", "c"}, tn.Relations())
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestLoad_RelationCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, New(1, 2, []string{"a", "b"})))

	_, err := Load(path, []string{"a", "b", "c"})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestValidate(t *testing.T) {
	tn := New(1, 2, []string{"a"})
	assert.NoError(t, tn.Validate(1, 2, 1))
	assert.True(t, errors.Is(tn.Validate(2, 1, 1), ErrShapeMismatch))
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, Fingerprint([]string{"a", "b"}), Fingerprint([]string{"b", "a"}))
	assert.Len(t, Fingerprint(nil), 64)
}

// TestBuild_OrderIndependent checks that shuffling the record stream never
// changes the tensor.
func TestBuild_OrderIndependent(t *testing.T) {
	v1Words := []string{"a", "b", "c"}
	v2Words := []string{"x", "y"}
	relations := []string{"r0", "r1", "r2"}
	words := []any{"a", "b", "c", "x", "y", "zz"}

	recordGen := gen.Struct(reflect.TypeOf(relcsv.Record{}), map[string]gopter.Gen{
		"Word1":     gen.OneConstOf(words...),
		"Word2":     gen.OneConstOf(words...),
		"Relations": gen.SliceOf(gen.OneConstOf("r0", "r1", "r2")),
	})

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("permuted records build the same tensor", prop.ForAll(
		func(recs []relcsv.Record, seed uint64) bool {
			v1, _ := vocab.NewEnumeration(v1Words)
			v2, _ := vocab.NewEnumeration(v2Words)

			shuffled := slices.Clone(recs)
			rng := rand.New(rand.NewPCG(seed, 0))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			t1, _, err1 := Build(v1, v2, relations, records(recs...))
			t2, _, err2 := Build(v1, v2, relations, records(shuffled...))
			return err1 == nil && err2 == nil && t1.Equal(t2)
		},
		gen.SliceOf(recordGen),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
