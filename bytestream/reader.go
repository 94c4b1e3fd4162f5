// Package bytestream provides a positional, forward-only reader over an
// in-memory byte buffer.
//
// Reader offers the fixed-width integer reads the IR wire format is built
// from (signed and unsigned 1/2/4/8-byte values) plus raw byte runs. Every
// read advances the cursor; a read that would run past the end of the buffer
// fails with errs.ErrTruncated and leaves the cursor untouched.
package bytestream

import (
	"fmt"

	"github.com/arloliu/clpir/endian"
	"github.com/arloliu/clpir/errs"
)

// Reader reads fixed-width values from a byte slice.
//
// Note: Reader is NOT thread-safe.
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// Option configures a Reader.
type Option func(*Reader)

// WithEngine sets the byte order used for multi-byte reads. The default is
// the big-endian wire order.
func WithEngine(engine endian.EndianEngine) Option {
	return func(r *Reader) {
		r.engine = engine
	}
}

// NewReader creates a Reader positioned at the start of data.
// The reader does not copy data; the caller must not modify it while reading.
func NewReader(data []byte, opts ...Option) *Reader {
	r := &Reader{
		data:   data,
		engine: endian.GetWireEngine(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Seek moves the cursor to an absolute position in [0, Len()].
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("seek to %d outside [0, %d]", pos, len(r.data))
	}
	r.pos = pos

	return nil
}

func (r *Reader) next(n int) ([]byte, error) {
	if n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncated, n, r.pos, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// ReadUint8 reads an unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err //nolint:gosec
}

// ReadUint16 reads an unsigned 2-byte integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// ReadInt16 reads a signed 2-byte integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err //nolint:gosec
}

// ReadUint32 reads an unsigned 4-byte integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// ReadInt32 reads a signed 4-byte integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err //nolint:gosec
}

// ReadUint64 reads an unsigned 8-byte integer.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// ReadInt64 reads a signed 8-byte integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err //nolint:gosec
}

// ReadFully reads exactly n bytes.
//
// The returned slice aliases the underlying buffer; callers that keep it past
// the lifetime of the buffer must copy it.
func (r *Reader) ReadFully(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrNegativeLength, n)
	}

	return r.next(n)
}
