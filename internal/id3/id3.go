// Package id3 reads ID3v2 text frames and detects ID3v1 trailers.
//
// The reader is shared by the MP3 parser and by the DFF parser, which
// embeds a complete ID3v2 tag in its "ID3 " chunk.
package id3

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

const (
	headerSize   = 10
	v1TrailerLen = 128
)

// Header represents an ID3v2 tag header.
type Header struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding the 10-byte header, decoded from synchsafe
}

// TotalSize is the tag size including its header.
func (h Header) TotalSize() int64 {
	return int64(h.Size) + headerSize
}

var (
	frameIDPattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)
	yearPattern    = regexp.MustCompile(`\d{4}`)
	leadingNumber  = regexp.MustCompile(`^(\d+)`)
)

// DecodeSynchsafe decodes a 28-bit synchsafe integer (7 bits per byte, MSB first).
//
// For example, bytes 00 00 02 01 decode to 257.
func DecodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// ReadHeader reads the tag header at the start of buf.
func ReadHeader(buf *binary.Buffer) (Header, error) {
	raw, err := buf.Slice(0, headerSize, "ID3v2 header")
	if err != nil {
		return Header{}, err
	}
	if string(raw[:3]) != "ID3" {
		return Header{}, &types.CorruptedFileError{
			Path:   buf.Name(),
			Reason: "missing ID3 magic",
		}
	}
	return Header{
		Version:  raw[3],
		Revision: raw[4],
		Flags:    raw[5],
		Size:     DecodeSynchsafe(raw[6:10]),
	}, nil
}

// TagSize returns the size of a leading ID3v2 tag including its header,
// or 0 when buf does not start with one.
func TagSize(buf *binary.Buffer) int64 {
	h, err := ReadHeader(buf)
	if err != nil {
		return 0
	}
	return h.TotalSize()
}

// HasV1Trailer reports whether the last 128 bytes start with "TAG".
func HasV1Trailer(buf *binary.Buffer) bool {
	n := buf.Len()
	return n >= v1TrailerLen && buf.Match(n-v1TrailerLen, "TAG")
}

// Read parses the ID3v2 tag at the start of buf.
//
// Frame iteration stops at the first frame whose ID is not four
// characters of [A-Z0-9] (padding), or whose size is zero or runs past
// the buffer. Undecodable frames are skipped. The returned error is
// non-nil only when no tag header could be read.
func Read(buf *binary.Buffer) (types.Tags, error) {
	var tags types.Tags

	h, err := ReadHeader(buf)
	if err != nil {
		return tags, err
	}

	offset := int64(headerSize)
	if h.Flags&0x40 != 0 {
		offset += extendedHeaderSize(buf, h)
	}

	tagEnd := h.TotalSize()
	for offset < tagEnd-headerSize {
		raw, err := buf.Slice(offset, headerSize, "frame header")
		if err != nil {
			break
		}

		frameID := string(raw[:4])
		if !frameIDPattern.MatchString(frameID) {
			break
		}

		var frameSize uint32
		if h.Version == 4 {
			frameSize = DecodeSynchsafe(raw[4:8])
		} else {
			frameSize, _ = binary.Read[uint32](buf, offset+4, "frame size")
		}
		if frameSize == 0 || !buf.Has(offset+headerSize, int64(frameSize)) {
			break
		}

		content, _ := buf.Slice(offset+headerSize, int64(frameSize), fmt.Sprintf("frame %s", frameID))
		if text, ok := decodeText(content[1:], content[0]); ok && text != "" {
			setFrame(&tags, frameID, text)
		}

		offset += headerSize + int64(frameSize)
	}

	return tags, nil
}

func extendedHeaderSize(buf *binary.Buffer, h Header) int64 {
	raw, err := buf.Slice(headerSize, 4, "extended header size")
	if err != nil {
		return 0
	}
	if h.Version == 4 {
		return int64(DecodeSynchsafe(raw))
	}
	size, _ := binary.Read[uint32](buf, headerSize, "extended header size")
	return int64(size) + 4
}

func setFrame(t *types.Tags, frameID, text string) {
	switch frameID {
	case "TPE1":
		t.Artist = text
	case "TALB":
		t.Album = text
	case "TIT2":
		t.Title = text
	case "TCON":
		t.Genre = text
	case "TYER", "TDRC":
		if m := yearPattern.FindString(text); m != "" {
			t.Year, _ = strconv.Atoi(m)
		}
	case "TRCK":
		if n := parseLeadingNumber(text); n > 0 {
			t.TrackNumber = n
		}
	case "TPOS":
		if n := parseLeadingNumber(text); n > 0 {
			t.DiscNumber = n
		}
	case "TSSE":
		t.WritingLibrary = text
	case "TENC":
		if t.WritingLibrary == "" {
			t.WritingLibrary = text
		}
	case "TPE2":
		t.AlbumArtist = text
	}
}

// parseLeadingNumber parses the "N" of "N" or "N/Total".
func parseLeadingNumber(text string) int {
	m := leadingNumber.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
