// Package vorbis maps Vorbis comment blocks onto record tags.
//
// Vorbis comments are little-endian length-prefixed UTF-8 strings in
// "KEY=VALUE" form. FLAC stores them in its VORBIS_COMMENT metadata block.
package vorbis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// ParseComment parses a single "KEY=VALUE" comment into tags.
// Keys are matched case-insensitively; unknown keys are ignored.
func ParseComment(comment string, tags *types.Tags) error {
	key, value, ok := strings.Cut(comment, "=")
	if !ok || key == "" {
		return fmt.Errorf("missing '=' in comment: %q", comment)
	}

	switch strings.ToUpper(key) {
	case "ARTIST":
		tags.Artist = value
	case "ALBUM":
		tags.Album = value
	case "ALBUMARTIST":
		tags.AlbumArtist = value
	case "TITLE":
		tags.Title = value
	case "GENRE":
		tags.Genre = value
	case "DATE", "YEAR":
		if year, ok := leadingInt(value[:min(4, len(value))]); ok {
			tags.Year = year
		}
	case "TRACKNUMBER":
		if n, ok := leadingInt(value); ok {
			tags.TrackNumber = n
		}
	case "DISCNUMBER":
		if n, ok := leadingInt(value); ok {
			tags.DiscNumber = n
		}
	case "ENCODER", "SOFTWARE", "ENCODEDBY":
		tags.WritingLibrary = value
	}

	return nil
}

// leadingInt parses the decimal digits at the start of s, after any
// leading whitespace. "3/12" yields 3.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// ParseBlock reads a comment block: vendor string, comment count, then
// the comments. The vendor string becomes the writing library unless a
// comment names an encoder.
//
// Reading stops at the first length that runs past the block. Tags read
// before that point are returned together with the errors met so far;
// malformed comments are reported but do not stop the walk.
func ParseBlock(buf *binary.Buffer) (types.Tags, []error) {
	var (
		tags types.Tags
		errs []error
	)

	vendorLength, err := binary.ReadLE[uint32](buf, 0, "vendor string length")
	if err != nil {
		return tags, append(errs, err)
	}
	vendor, err := buf.String(4, int64(vendorLength), "vendor string")
	if err != nil {
		return tags, append(errs, err)
	}
	tags.WritingLibrary = vendor

	offset := 4 + int64(vendorLength)
	count, err := binary.ReadLE[uint32](buf, offset, "comment count")
	if err != nil {
		return tags, append(errs, err)
	}
	offset += 4

	for i := uint32(0); i < count; i++ {
		length, err := binary.ReadLE[uint32](buf, offset, "comment length")
		if err != nil {
			return tags, append(errs, fmt.Errorf("comment %d: %w", i, err))
		}
		offset += 4

		comment, err := buf.String(offset, int64(length), "comment")
		if err != nil {
			return tags, append(errs, fmt.Errorf("comment %d: %w", i, err))
		}
		offset += int64(length)

		if err := ParseComment(comment, &tags); err != nil {
			errs = append(errs, err)
		}
	}

	return tags, errs
}
