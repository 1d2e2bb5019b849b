package similarity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/lexrel/internal/npz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glove.npz")
	m := New("glove", 2, 3)
	m.Set(0, 1, 0.5)
	m.Set(1, 2, -0.25)
	require.NoError(t, Save(path, m))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "glove", got.Name)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 3, got.Cols)
	assert.Equal(t, 0.5, got.At(0, 1))
	assert.Equal(t, -0.25, got.At(1, 2))
}

func TestLoad_WrongRank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.npz")
	require.NoError(t, npz.Save(path, func(w *npz.Writer) error {
		return w.AddFloat64(ArrayKey, []int{2}, []float64{1, 2})
	}))

	_, err := Load(path)
	assert.ErrorContains(t, err, "dimensions")
}

func TestSub(t *testing.T) {
	m := New("m", 3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, float64(10*i+j))
		}
	}
	sub := m.Sub([]int{0, 2}, []int{1})
	assert.Equal(t, []float64{1, 21}, sub.Data)
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "w2v_300", ModelName("/data/sims/w2v_300.npz"))
	assert.Equal(t, "plain", ModelName("plain"))
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.npz", "a.npz", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	got, err := ExpandPaths([]string{filepath.Join(dir, "*.npz"), filepath.Join(dir, "a.npz"), "missing.npz"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.npz"), filepath.Join(dir, "b.npz"), "missing.npz"}, got)

	_, err = ExpandPaths([]string{"[bad"})
	assert.Error(t, err)
}
