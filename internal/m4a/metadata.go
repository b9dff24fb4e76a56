package m4a

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// dataHeaderSize covers the data atom header, version/flags and the
// reserved locale field.
const dataHeaderSize = 16

// itemPayload returns the value bytes of an ilst item, taken from the
// data atom that must immediately follow the item header.
func itemPayload(buf *binary.Buffer, item *Atom) ([]byte, error) {
	dataAtom, err := readAtomHeader(buf, item.DataOffset())
	if err != nil {
		return nil, err
	}
	if dataAtom.Type != "data" || dataAtom.Extended {
		return nil, fmt.Errorf("item %q has no data atom", item.Type)
	}
	if dataAtom.Size < dataHeaderSize || !dataAtom.fits(item.End()) {
		return nil, fmt.Errorf("item %q has invalid data size %d", item.Type, dataAtom.Size)
	}
	return buf.Slice(dataAtom.Offset+dataHeaderSize, int64(dataAtom.Size)-dataHeaderSize, "metadata value")
}

// itemText decodes a UTF-8 item value, dropping a leading BOM, NULs and
// surrounding space.
func itemText(payload []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(payload)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(out), "\x00", ""))
}

// extractIlstMetadata parses all metadata items from the ilst atom.
// Items with an unusable size are skipped 8 bytes at a time.
func extractIlstMetadata(buf *binary.Buffer, ilstAtom *Atom, b *types.Builder) {
	var tags types.Tags

	offset := ilstAtom.DataOffset()
	end := ilstAtom.End()

	for offset < end-8 {
		item, err := readAtomHeader(buf, offset)
		if err != nil {
			b.WarnErr("m4a", err, offset)
			break
		}
		if item.Extended || !item.fits(end) {
			offset += 8
			continue
		}

		payload, err := itemPayload(buf, item)
		if err == nil {
			mapTagToField(item.Type, payload, &tags)
		}

		offset = item.End()
	}

	b.ApplyTags(tags)
}

// mapTagToField maps an iTunes tag to the appropriate metadata field.
// In MP4, © is the byte 0xA9, so "©nam" is "\xA9nam" in Go strings.
func mapTagToField(tag string, payload []byte, tags *types.Tags) {
	switch tag {
	case "trkn":
		if n, ok := pairNumber(payload); ok {
			tags.TrackNumber = n
		}
		return
	case "disk":
		if n, ok := pairNumber(payload); ok {
			tags.DiscNumber = n
		}
		return
	}

	value := itemText(payload)
	if value == "" {
		return
	}

	switch tag {
	case "\xA9nam": // Title (©nam)
		tags.Title = value
	case "\xA9ART": // Artist (©ART)
		tags.Artist = value
	case "aART":
		tags.AlbumArtist = value
	case "\xA9alb": // Album (©alb)
		tags.Album = value
	case "\xA9gen": // Genre (©gen)
		tags.Genre = value
	case "\xA9day": // Year (©day)
		if year, ok := parseYear(value); ok {
			tags.Year = year
		}
	case "\xA9too": // Encoder (©too)
		tags.WritingLibrary = value
	}
}

// pairNumber reads the first number of a trkn/disk pair:
// [reserved(2)] [number(2)] [total(2)] ...
func pairNumber(payload []byte) (int, bool) {
	if len(payload) < 4 {
		return 0, false
	}
	n, err := binary.Read[uint16](binary.NewBuffer(payload, "number pair"), 2, "number")
	if err != nil || n == 0 {
		return 0, false
	}
	return int(n), true
}

// parseYear reads the leading digits of the first four characters.
// "2019-04-01" yields 2019.
func parseYear(value string) (int, bool) {
	value = value[:min(4, len(value))]
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(value[:end])
	if err != nil || year == 0 {
		return 0, false
	}
	return year, true
}
