// Package reader is the bounds-checked cursor every binary decoder reads
// through. A read that would run past the end fails and leaves the cursor
// where it was.
package reader

import (
	"encoding/binary"
	"math"

	"github.com/jsphweid/tabdex/taberr"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

type Reader struct {
	data    []byte
	pos     int
	section string
	dec     *encoding.Decoder
}

// New returns a reader over data. Strings are decoded with enc; nil means
// windows-1252, which is what Guitar Pro writes on every platform.
func New(data []byte, enc encoding.Encoding) *Reader {
	if enc == nil {
		enc = charmap.Windows1252
	}
	return &Reader{data: data, dec: enc.NewDecoder()}
}

// Section names the part of the file being read; it ends up in errors.
func (r *Reader) Section(name string) {
	r.section = name
}

func (r *Reader) SectionName() string {
	return r.section
}

func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int) error {
	if n < 0 {
		return taberr.Malformedf(r.section, r.pos, "negative length %d", n)
	}
	if r.pos+n > len(r.data) {
		return taberr.Malformedf(r.section, r.pos, "need %d bytes, %d left", n, len(r.data)-r.pos)
	}
	return nil
}

func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

func (r *Reader) Byte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) SByte() (int, error) {
	b, err := r.Byte()
	return int(int8(b)), err
}

func (r *Reader) Bool() (bool, error) {
	b, err := r.Byte()
	return b != 0, err
}

func (r *Reader) Int16() (int, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return int(int16(binary.LittleEndian.Uint16(b))), nil
}

func (r *Reader) Int32() (int, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return int(int32(binary.LittleEndian.Uint32(b))), nil
}

func (r *Reader) Float64() (float64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *Reader) decode(b []byte) string {
	s, err := r.dec.Bytes(b)
	if err != nil {
		// undecodable legacy text is cosmetic, keep the bytes
		return string(b)
	}
	return string(s)
}

// String reads n raw bytes as text.
func (r *Reader) String(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return r.decode(b), nil
}

// ByteSizeString reads a one byte length followed by a fixed width field.
// fixed < 0 means the field is exactly as long as the length says.
func (r *Reader) ByteSizeString(fixed int) (string, error) {
	start := r.pos
	n, err := r.Byte()
	if err != nil {
		return "", err
	}
	width := fixed
	if width < 0 {
		width = int(n)
	}
	if int(n) > width {
		r.pos = start
		return "", taberr.Malformedf(r.section, start, "string length %d exceeds field width %d", n, width)
	}
	b, err := r.Bytes(width)
	if err != nil {
		r.pos = start
		return "", err
	}
	return r.decode(b[:n]), nil
}

// IntString reads a four byte length followed by that many bytes.
func (r *Reader) IntString() (string, error) {
	start := r.pos
	n, err := r.Int32()
	if err != nil {
		return "", err
	}
	s, err := r.String(n)
	if err != nil {
		r.pos = start
	}
	return s, err
}

// IntByteSizeString reads the common Guitar Pro string: a four byte size
// (length + 1), a one byte length, then the text.
func (r *Reader) IntByteSizeString() (string, error) {
	start := r.pos
	total, err := r.Int32()
	if err != nil {
		return "", err
	}
	n, err := r.Byte()
	if err != nil {
		r.pos = start
		return "", err
	}
	if total > 0 && int(n) > total-1 {
		r.pos = start
		return "", taberr.Malformedf(r.section, start, "string length %d exceeds declared size %d", n, total)
	}
	s, err := r.String(int(n))
	if err != nil {
		r.pos = start
	}
	return s, err
}
