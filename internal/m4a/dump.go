package m4a

import (
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/audioprobe/internal/binary"
)

// Dump writes the atom tree of data to w, one atom per line, indented by
// depth. Atoms the parser would skip are listed with a "skipped" marker.
func Dump(w io.Writer, data []byte, name string) error {
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	buf := binary.NewBuffer(data, name)
	wk := &walker{
		buf: buf,
		visit: func(atom *Atom, depth int) {
			write("%s%s (size: %d, offset: %d)\n", strings.Repeat("  ", depth), printable(atom.Type), atom.Size, atom.Offset)
		},
		skip: func(offset int64, atom *Atom) {
			write("skipped %s (size: %d, offset: %d)\n", printable(atom.Type), atom.Size, offset)
		},
	}
	wk.walk(0, buf.Len(), 0)
	return err
}

// printable replaces non-ASCII bytes in a type code, so "\xA9nam" prints as "©nam".
func printable(atomType string) string {
	var sb strings.Builder
	for i := 0; i < len(atomType); i++ {
		c := atomType[i]
		switch {
		case c == 0xA9:
			sb.WriteString("©")
		case c < 0x20 || c > 0x7E:
			sb.WriteByte('.')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
