// Package m4a reads the ISO base media ("atom") tree of MPEG-4 audio files.
package m4a

import (
	"fmt"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// Atom represents an MP4/M4A atom (box).
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in buffer
	Extended bool   // Whether this uses 64-bit extended size
}

func (a *Atom) headerSize() uint64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header).
func (a *Atom) DataSize() uint64 {
	if a.Size < a.headerSize() {
		return 0
	}
	return a.Size - a.headerSize()
}

// DataOffset returns the offset where the atom's data starts.
func (a *Atom) DataOffset() int64 {
	return a.Offset + int64(a.headerSize())
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// fits reports whether the atom has a usable size and ends within end.
func (a *Atom) fits(end int64) bool {
	return a.Size >= a.headerSize() && a.Size <= uint64(end-a.Offset)
}

// readAtomHeader reads an atom header at the given offset. Sizes are not
// validated; callers check them against their parent with fits.
func readAtomHeader(buf *binary.Buffer, offset int64) (*Atom, error) {
	size32, err := binary.Read[uint32](buf, offset, "atom size")
	if err != nil {
		return nil, err
	}
	atomType, err := buf.String(offset+4, 4, "atom type")
	if err != nil {
		return nil, err
	}

	atom := &Atom{
		Size:   uint64(size32),
		Type:   atomType,
		Offset: offset,
	}

	// size == 1 means a 64-bit size follows the type
	if size32 == 1 {
		size64, err := binary.Read[uint64](buf, offset+8, "extended atom size")
		if err != nil {
			return nil, err
		}
		atom.Size = size64
		atom.Extended = true
	}

	return atom, nil
}

// findAtom returns the first atom of the given type among the siblings
// in [start, end). The search stops at the first atom that does not fit.
func findAtom(buf *binary.Buffer, start, end int64, atomType string) (*Atom, error) {
	offset := start
	for offset < end-8 {
		atom, err := readAtomHeader(buf, offset)
		if err != nil {
			return nil, err
		}
		if !atom.fits(end) {
			return nil, &types.CorruptedFileError{
				Path:   buf.Name(),
				Offset: offset,
				Reason: fmt.Sprintf("invalid atom size %d for %q", atom.Size, atom.Type),
			}
		}
		if atom.Type == atomType {
			return atom, nil
		}
		offset = atom.End()
	}
	return nil, fmt.Errorf("atom %q not found", atomType)
}
