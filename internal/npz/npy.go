// Package npz reads and writes NumPy .npy arrays and .npz archives.
//
// Only the dtypes this project exchanges are supported: bool ('|b1') and
// little or big endian float32/float64 ('<f4', '<f8', '>f4', '>f8').
package npz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var magic = []byte("\x93NUMPY")

// headerAlign is the alignment NumPy pads the header to.
const headerAlign = 64

// Dtype descriptors.
const (
	Bool    = "|b1"
	Float32 = "<f4"
	Float64 = "<f8"
)

var (
	ErrBadMagic         = errors.New("not a .npy file")
	ErrUnsupportedDtype = errors.New("unsupported dtype")
	ErrMalformedHeader  = errors.New("malformed .npy header")
	ErrSizeMismatch     = errors.New("data size does not match shape")
)

// Header describes a stored array.
type Header struct {
	Descr        string
	FortranOrder bool
	Shape        []int
}

// Len returns the number of elements.
func (h Header) Len() int {
	n := 1
	for _, d := range h.Shape {
		n *= d
	}
	return n
}

func (h Header) itemSize() (int, error) {
	switch h.Descr {
	case Bool, "?", "<b1", ">b1":
		return 1, nil
	case Float32, ">f4":
		return 4, nil
	case Float64, ">f8":
		return 8, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDtype, h.Descr)
}

func (h Header) byteOrder() binary.ByteOrder {
	if strings.HasPrefix(h.Descr, ">") {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (h Header) String() string {
	var shape string
	switch len(h.Shape) {
	case 0:
		shape = "()"
	case 1:
		shape = fmt.Sprintf("(%d,)", h.Shape[0])
	default:
		parts := make([]string, len(h.Shape))
		for i, d := range h.Shape {
			parts[i] = strconv.Itoa(d)
		}
		shape = "(" + strings.Join(parts, ", ") + ")"
	}
	order := "False"
	if h.FortranOrder {
		order = "True"
	}
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", h.Descr, order, shape)
}

// writeHeader writes the magic, version and padded header dict.
func writeHeader(w io.Writer, h Header) error {
	dict := h.String()
	// magic(6) + version(2) + length(2) + dict + '\n'
	major := byte(1)
	prefix := len(magic) + 2 + 2
	total := prefix + len(dict) + 1
	if padded := roundUp(total, headerAlign); padded-prefix > math.MaxUint16 {
		major = 2
		prefix += 2
		total += 2
	}
	padded := roundUp(total, headerAlign)
	dict += strings.Repeat(" ", padded-total) + "\n"

	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(major)
	buf.WriteByte(0)
	if major == 1 {
		binary.Write(&buf, binary.LittleEndian, uint16(len(dict)))
	} else {
		binary.Write(&buf, binary.LittleEndian, uint32(len(dict)))
	}
	buf.WriteString(dict)
	_, err := w.Write(buf.Bytes())
	return err
}

func roundUp(n, align int) int {
	return (n + align - 1) / align * align
}

var (
	descrRe = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	orderRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// readHeader parses the magic, version and header dict.
func readHeader(r io.Reader) (Header, error) {
	var pre [8]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if !bytes.Equal(pre[:6], magic) {
		return Header{}, ErrBadMagic
	}

	var size int
	switch pre[6] {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Header{}, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		size = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Header{}, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		size = int(n)
	default:
		return Header{}, fmt.Errorf("%w: version %d.%d", ErrMalformedHeader, pre[6], pre[7])
	}

	dict := make([]byte, size)
	if _, err := io.ReadFull(r, dict); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	return parseHeaderDict(string(dict))
}

func parseHeaderDict(dict string) (Header, error) {
	var h Header
	m := descrRe.FindStringSubmatch(dict)
	if m == nil {
		return h, fmt.Errorf("%w: missing descr", ErrMalformedHeader)
	}
	h.Descr = m[1]

	m = orderRe.FindStringSubmatch(dict)
	if m == nil {
		return h, fmt.Errorf("%w: missing fortran_order", ErrMalformedHeader)
	}
	h.FortranOrder = m[1] == "True"

	m = shapeRe.FindStringSubmatch(dict)
	if m == nil {
		return h, fmt.Errorf("%w: missing shape", ErrMalformedHeader)
	}
	h.Shape = []int{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || d < 0 {
			return h, fmt.Errorf("%w: bad dimension %q", ErrMalformedHeader, part)
		}
		h.Shape = append(h.Shape, d)
	}
	return h, nil
}

// WriteBool writes a boolean array in C order.
func WriteBool(w io.Writer, shape []int, data []bool) error {
	h := Header{Descr: Bool, Shape: shape}
	if h.Len() != len(data) {
		return fmt.Errorf("%w: shape %v holds %d, got %d", ErrSizeMismatch, shape, h.Len(), len(data))
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	for i, v := range data {
		if v {
			buf[i] = 1
		}
	}
	_, err := w.Write(buf)
	return err
}

// WriteFloat64 writes a float64 array in C order.
func WriteFloat64(w io.Writer, shape []int, data []float64) error {
	h := Header{Descr: Float64, Shape: shape}
	if h.Len() != len(data) {
		return fmt.Errorf("%w: shape %v holds %d, got %d", ErrSizeMismatch, shape, h.Len(), len(data))
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	buf := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

// ReadBool reads a boolean array and returns it in C order.
func ReadBool(r io.Reader) (Header, []bool, error) {
	h, raw, err := readBody(r)
	if err != nil {
		return h, nil, err
	}
	if size, _ := h.itemSize(); size != 1 {
		return h, nil, fmt.Errorf("%w: want bool, got %q", ErrUnsupportedDtype, h.Descr)
	}
	data := make([]bool, len(raw))
	for i, b := range raw {
		data[i] = b != 0
	}
	if h.FortranOrder {
		data = toCOrder(data, h.Shape)
		h.FortranOrder = false
	}
	return h, data, nil
}

// ReadFloat64 reads a float32 or float64 array as float64 in C order.
func ReadFloat64(r io.Reader) (Header, []float64, error) {
	h, raw, err := readBody(r)
	if err != nil {
		return h, nil, err
	}
	size, _ := h.itemSize()
	order := h.byteOrder()
	data := make([]float64, h.Len())
	switch {
	case size == 8 && strings.HasSuffix(h.Descr, "f8"):
		for i := range data {
			data[i] = math.Float64frombits(order.Uint64(raw[8*i:]))
		}
	case size == 4 && strings.HasSuffix(h.Descr, "f4"):
		for i := range data {
			data[i] = float64(math.Float32frombits(order.Uint32(raw[4*i:])))
		}
	default:
		return h, nil, fmt.Errorf("%w: want float, got %q", ErrUnsupportedDtype, h.Descr)
	}
	if h.FortranOrder {
		data = toCOrder(data, h.Shape)
		h.FortranOrder = false
	}
	return h, data, nil
}

func readBody(r io.Reader) (Header, []byte, error) {
	h, err := readHeader(r)
	if err != nil {
		return h, nil, err
	}
	size, err := h.itemSize()
	if err != nil {
		return h, nil, err
	}
	raw := make([]byte, size*h.Len())
	if _, err := io.ReadFull(r, raw); err != nil {
		return h, nil, fmt.Errorf("%w: %v", ErrSizeMismatch, err)
	}
	return h, raw, nil
}

// toCOrder reorders column-major data into row-major order.
func toCOrder[T any](data []T, shape []int) []T {
	if len(shape) < 2 {
		return data
	}
	out := make([]T, len(data))
	idx := make([]int, len(shape))
	for c := range out {
		// Fortran offset of the multi-index idx.
		f, stride := 0, 1
		for k := range shape {
			f += idx[k] * stride
			stride *= shape[k]
		}
		out[c] = data[f]
		for k := len(shape) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < shape[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out
}
