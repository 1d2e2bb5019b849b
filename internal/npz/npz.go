package npz

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ErrKeyNotFound is returned when an archive has no array under a key.
var ErrKeyNotFound = errors.New("array not found in archive")

const suffix = ".npy"

// Writer adds arrays to a compressed .npz archive.
type Writer struct {
	zw *zip.Writer
}

// NewWriter creates an archive writer on w. Entries are deflate-compressed.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{zw: zw}
}

func (w *Writer) create(key string) (io.Writer, error) {
	return w.zw.CreateHeader(&zip.FileHeader{Name: key + suffix, Method: zip.Deflate})
}

// AddBool stores a boolean array under key.
func (w *Writer) AddBool(key string, shape []int, data []bool) error {
	f, err := w.create(key)
	if err != nil {
		return fmt.Errorf("adding %s: %w", key, err)
	}
	return WriteBool(f, shape, data)
}

// AddFloat64 stores a float64 array under key.
func (w *Writer) AddFloat64(key string, shape []int, data []float64) error {
	f, err := w.create(key)
	if err != nil {
		return fmt.Errorf("adding %s: %w", key, err)
	}
	return WriteFloat64(f, shape, data)
}

// Close finishes the archive.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// Save writes an archive to path through fill. The archive is written to a
// temporary file and renamed into place, so readers never see a partial file.
func Save(path string, fill func(*Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	w := NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Reader gives access to the arrays of an .npz archive.
type Reader struct {
	path string
	rc   *zip.ReadCloser
}

// Open opens an archive.
func Open(path string) (*Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Reader{path: path, rc: rc}, nil
}

// Close releases the archive.
func (r *Reader) Close() error {
	return r.rc.Close()
}

// Keys lists the stored arrays, sorted.
func (r *Reader) Keys() []string {
	var keys []string
	for _, f := range r.rc.File {
		keys = append(keys, strings.TrimSuffix(f.Name, suffix))
	}
	sort.Strings(keys)
	return keys
}

func (r *Reader) open(key string) (io.ReadCloser, error) {
	for _, f := range r.rc.File {
		if f.Name == key+suffix || f.Name == key {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrKeyNotFound, key, r.path)
}

// Header returns the header of the array under key without reading its data.
func (r *Reader) Header(key string) (Header, error) {
	f, err := r.open(key)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return readHeader(f)
}

// Bool reads the boolean array under key.
func (r *Reader) Bool(key string) (Header, []bool, error) {
	f, err := r.open(key)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	h, data, err := ReadBool(f)
	if err != nil {
		return h, nil, fmt.Errorf("%s[%s]: %w", r.path, key, err)
	}
	return h, data, nil
}

// Float64 reads the float array under key, widening float32 data.
func (r *Reader) Float64(key string) (Header, []float64, error) {
	f, err := r.open(key)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	h, data, err := ReadFloat64(f)
	if err != nil {
		return h, nil, fmt.Errorf("%s[%s]: %w", r.path, key, err)
	}
	return h, data, nil
}
