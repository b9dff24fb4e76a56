package m4a

import (
	"github.com/simonhull/audioprobe/internal/binary"
)

// maxDepth bounds recursion into nested containers.
const maxDepth = 10

// containers are descended into directly after their header.
var containers = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
	"udta": true,
}

// visitFunc is called for every atom the walker accepts.
type visitFunc func(atom *Atom, depth int)

// skipFunc is called when an atom header declares an unusable size.
type skipFunc func(offset int64, atom *Atom)

type walker struct {
	buf   *binary.Buffer
	visit visitFunc
	skip  skipFunc
}

// walk iterates the atoms in [offset, end) and recurses into containers.
//
// An atom whose size is below its header size or runs past end is
// skipped 8 bytes at a time, except mdat, which then extends to end.
// The meta atom carries 4 bytes of version and flags before its children.
func (w *walker) walk(offset, end int64, depth int) {
	if depth > maxDepth {
		return
	}

	for offset < end-8 {
		atom, err := readAtomHeader(w.buf, offset)
		if err != nil {
			return
		}

		if !atom.fits(end) {
			if atom.Type != "mdat" {
				if w.skip != nil {
					w.skip(offset, atom)
				}
				offset += 8
				continue
			}
			atom.Size = uint64(end - offset)
			atom.Extended = false
		}

		w.visit(atom, depth)

		switch {
		case containers[atom.Type]:
			w.walk(atom.DataOffset(), atom.End(), depth+1)
		case atom.Type == "meta":
			w.walk(atom.DataOffset()+4, atom.End(), depth+1)
		}

		offset = atom.End()
	}
}
