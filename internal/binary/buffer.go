// Package binary provides bounds-checked reads over an in-memory byte buffer.
package binary

import "github.com/simonhull/audioprobe/internal/types"

// Buffer wraps a borrowed byte slice. Every read is bounds checked and
// returns *types.OutOfBoundsError instead of panicking.
type Buffer struct {
	data []byte
	name string
}

// NewBuffer creates a Buffer over data. name is used in error messages.
func NewBuffer(data []byte, name string) *Buffer {
	return &Buffer{data: data, name: name}
}

// Name returns the file name associated with this buffer.
func (b *Buffer) Name() string {
	return b.name
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int64 {
	return int64(len(b.data))
}

// Bytes returns the underlying slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Has reports whether n bytes are available at off.
func (b *Buffer) Has(off, n int64) bool {
	return off >= 0 && n >= 0 && off+n <= int64(len(b.data))
}

// Slice returns n bytes at off without copying.
func (b *Buffer) Slice(off, n int64, what string) ([]byte, error) {
	if !b.Has(off, n) {
		return nil, &types.OutOfBoundsError{
			Path:   b.name,
			What:   what,
			Offset: off,
			Length: int(n),
			Size:   int64(len(b.data)),
		}
	}
	return b.data[off : off+n], nil
}

// String returns n bytes at off as a string.
func (b *Buffer) String(off, n int64, what string) (string, error) {
	s, err := b.Slice(off, n, what)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// Match reports whether the bytes at off equal sig. Out of range never matches.
func (b *Buffer) Match(off int64, sig string) bool {
	s, err := b.Slice(off, int64(len(sig)), "signature")
	return err == nil && string(s) == sig
}

// Read reads a big-endian value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, BigEndian)
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int64 {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*Buffer
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(b *Buffer, offset int64) *Reader {
	return &Reader{Buffer: b, offset: offset}
}

// ReadValue reads a big-endian value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := Read[T](r.Buffer, r.offset, what)
	if err != nil {
		return val, err
	}
	r.offset += sizeOf[T]()
	return val, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	s, err := r.Buffer.String(r.offset, int64(length), what)
	if err != nil {
		return "", err
	}
	r.offset += int64(length)
	return s, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, it returns the zero value without reading.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	var zero T
	if cr.err != nil {
		return zero
	}
	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		return zero
	}
	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}
	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}
	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
