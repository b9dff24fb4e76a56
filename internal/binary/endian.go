package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian is used by ID3v2, MPEG-4 atoms, FLAC headers and DFF chunks.
	BigEndian Endianness = iota

	// LittleEndian is used by Vorbis comments.
	LittleEndian
)

// ReadLE reads a little-endian value of type T at the given offset.
//
// Example:
//
//	length, err := binary.ReadLE[uint32](buf, offset, "vorbis comment length")
func ReadLE[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, LittleEndian)
}

// ReadBE reads a big-endian value of type T at the given offset.
// Equivalent to Read but explicit about byte order.
func ReadBE[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, BigEndian)
}

// ReadEndian reads a value of type T at the given offset with the specified byte order.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string, endian Endianness) (T, error) {
	var zero T
	buf, err := b.Slice(off, sizeOf[T](), what)
	if err != nil {
		return zero, err
	}

	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	switch any(zero).(type) {
	case uint8:
		return T(buf[0]), nil
	case uint16:
		return T(order.Uint16(buf)), nil
	case uint32:
		return T(order.Uint32(buf)), nil
	default:
		return T(order.Uint64(buf)), nil
	}
}
