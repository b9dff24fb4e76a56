package m4a

import (
	"fmt"
	"math"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// parseMdhd reads the media header for the track length. Only the first
// mdhd that yields a positive length is used.
func parseMdhd(buf *binary.Buffer, mdhdAtom *Atom, b *types.Builder) error {
	if b.Claimed(types.FieldLength) || b.Record.Length > 0 {
		return nil
	}

	offset := mdhdAtom.DataOffset()

	version, err := binary.Read[uint8](buf, offset, "mdhd version")
	if err != nil {
		return err
	}

	var timescale uint32
	var duration uint64

	if version == 1 {
		timescale, duration, err = parseMdhdVersion1(buf, offset)
	} else {
		timescale, duration, err = parseMdhdVersion0(buf, offset)
	}
	if err != nil {
		return err
	}

	if timescale == 0 {
		return fmt.Errorf("mdhd timescale is zero")
	}

	length := int(math.Round(float64(duration) / float64(timescale)))
	if length > 0 && b.Once(types.FieldLength) {
		b.Record.Length = length
	}
	return nil
}

// parseMdhdVersion0 parses 32-bit mdhd (version 0).
func parseMdhdVersion0(buf *binary.Buffer, offset int64) (timescale uint32, duration uint64, err error) {
	cr := binary.NewChainReader(binary.NewReader(buf, offset+12))
	timescale = binary.ReadChained[uint32](cr, "mdhd timescale")
	duration32 := binary.ReadChained[uint32](cr, "mdhd duration")
	return timescale, uint64(duration32), cr.Error()
}

// parseMdhdVersion1 parses 64-bit mdhd (version 1).
func parseMdhdVersion1(buf *binary.Buffer, offset int64) (timescale uint32, duration uint64, err error) {
	cr := binary.NewChainReader(binary.NewReader(buf, offset+20))
	timescale = binary.ReadChained[uint32](cr, "mdhd timescale")
	duration = binary.ReadChained[uint64](cr, "mdhd duration")
	return timescale, duration, cr.Error()
}

// parseStsd walks the sample description entries until a supported one
// is found. It does nothing once a sample rate has been claimed.
func parseStsd(buf *binary.Buffer, stsdAtom *Atom, b *types.Builder) {
	if b.Claimed(types.FieldSampleRate) {
		return
	}

	// [version+flags(4)] [entry count(4)] [entries...]
	offset := stsdAtom.DataOffset() + 8
	end := stsdAtom.End()

	for offset < end {
		entry, err := readAtomHeader(buf, offset)
		if err != nil {
			b.WarnErr("m4a", err, offset)
			return
		}
		if entry.Extended || !entry.fits(end) {
			b.Warn("m4a", fmt.Sprintf("invalid sample description size %d for %q", entry.Size, entry.Type), offset)
			return
		}

		switch entry.Type {
		case "alac":
			parseALACEntry(buf, entry, b)
			return
		case "mp4a":
			parseMP4AEntry(buf, entry, b)
			return
		}

		offset = entry.End()
	}
}
