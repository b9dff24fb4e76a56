package m4a

import (
	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/registry"
	"github.com/simonhull/audioprobe/internal/types"
)

// parser implements registry.FormatParser for MPEG-4 audio files.
type parser struct{}

// Parse walks the atom tree from the start of the buffer and dispatches
// mdhd, stsd and ilst atoms wherever they appear.
func (p *parser) Parse(buf *binary.Buffer, b *types.Builder) {
	b.Record.Format = types.FormatM4A

	w := &walker{
		buf: buf,
		visit: func(atom *Atom, _ int) {
			switch atom.Type {
			case "mdhd":
				if err := parseMdhd(buf, atom, b); err != nil {
					b.WarnErr("m4a", err, atom.Offset)
				}
			case "stsd":
				parseStsd(buf, atom, b)
			case "ilst":
				extractIlstMetadata(buf, atom, b)
			}
		},
	}
	w.walk(0, buf.Len(), 0)
}

func init() {
	registry.Register(&parser{}, "m4a", "aac", "alac")
}
