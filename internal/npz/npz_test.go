package npz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawNpy builds a .npy stream by hand for a given header dict.
func rawNpy(dict string, body []byte) []byte {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.Write([]byte{1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(dict)))
	buf.WriteString(dict)
	buf.Write(body)
	return buf.Bytes()
}

func TestWriteBool_HeaderAligned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBool(&buf, []int{2, 3}, []bool{true, false, false, false, true, true}))

	data := buf.Bytes()
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	assert.Zero(t, (10+headerLen)%headerAlign)
	assert.Equal(t, byte('\n'), data[10+headerLen-1])
	assert.Contains(t, string(data[10:10+headerLen]), "'shape': (2, 3)")
}

func TestBoolRoundTrip(t *testing.T) {
	in := []bool{true, false, true, true, false, false, false, true}
	var buf bytes.Buffer
	require.NoError(t, WriteBool(&buf, []int{2, 2, 2}, in))

	h, out, err := ReadBool(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, h.Shape)
	assert.Equal(t, in, out)
}

func TestWriteBool_SizeMismatch(t *testing.T) {
	err := WriteBool(&bytes.Buffer{}, []int{2, 2}, []bool{true})
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestReadFloat64_Float32(t *testing.T) {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint32(body, math.Float32bits(0.5))
	binary.LittleEndian.PutUint32(body[4:], math.Float32bits(-2))
	stream := rawNpy("{'descr': '<f4', 'fortran_order': False, 'shape': (2,), }\n", body)

	h, data, err := ReadFloat64(bytes.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, h.Shape)
	assert.Equal(t, []float64{0.5, -2}, data)
}

func TestReadFloat64_FortranOrder(t *testing.T) {
	// Column-major 2x3: columns (1,4) (2,5) (3,6).
	values := []float64{1, 4, 2, 5, 3, 6}
	body := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(body[8*i:], math.Float64bits(v))
	}
	stream := rawNpy("{'descr': '<f8', 'fortran_order': True, 'shape': (2, 3), }\n", body)

	h, data, err := ReadFloat64(bytes.NewReader(stream))
	require.NoError(t, err)
	assert.False(t, h.FortranOrder)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, data)
}

func TestReadHeader_Errors(t *testing.T) {
	_, _, err := ReadBool(bytes.NewReader([]byte("PK\x03\x04not npy")))
	assert.True(t, errors.Is(err, ErrBadMagic))

	stream := rawNpy("{'descr': '<i8', 'fortran_order': False, 'shape': (1,), }\n", make([]byte, 8))
	_, _, err = ReadBool(bytes.NewReader(stream))
	assert.True(t, errors.Is(err, ErrUnsupportedDtype))

	stream = rawNpy("{'descr': '|b1', 'shape': (1,), }\n", []byte{1})
	_, _, err = ReadBool(bytes.NewReader(stream))
	assert.True(t, errors.Is(err, ErrMalformedHeader))

	stream = rawNpy("{'descr': '|b1', 'fortran_order': False, 'shape': (4,), }\n", []byte{1})
	_, _, err = ReadBool(bytes.NewReader(stream))
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "arrays.npz")
	err := Save(path, func(w *Writer) error {
		if err := w.AddBool("relations", []int{1, 2, 1}, []bool{true, false}); err != nil {
			return err
		}
		return w.AddFloat64("sims", []int{1, 2}, []float64{0.25, 0.75})
	})
	require.NoError(t, err)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"relations", "sims"}, r.Keys())

	h, err := r.Header("relations")
	require.NoError(t, err)
	assert.Equal(t, Bool, h.Descr)
	assert.Equal(t, []int{1, 2, 1}, h.Shape)

	_, rel, err := r.Bool("relations")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, rel)

	_, sims, err := r.Float64("sims")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, sims)

	_, _, err = r.Bool("missing")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestSave_FillErrorLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrays.npz")
	boom := errors.New("boom")
	err := Save(path, func(*Writer) error { return boom })
	assert.True(t, errors.Is(err, boom))
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+".tmp")
}
