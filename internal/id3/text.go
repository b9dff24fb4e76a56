package id3

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Text encodings declared by the first byte of a text frame.
const (
	encISO88591 = 0x00
	encUTF16    = 0x01 // BOM-prefixed; little-endian when the BOM is missing
	encUTF16BE  = 0x02
	encUTF8     = 0x03
)

func decoderFor(enc byte) *encoding.Decoder {
	switch enc {
	case encUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case encUTF16BE:
		// A stray BOM is consumed rather than decoded as U+FEFF.
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder()
	default:
		return charmap.ISO8859_1.NewDecoder()
	}
}

// decodeText decodes a frame payload, removes NUL terminators and trims
// surrounding whitespace. ok is false when the bytes cannot be decoded.
func decodeText(data []byte, enc byte) (string, bool) {
	if len(data) == 0 {
		return "", true
	}
	out, err := decoderFor(enc).Bytes(data)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(strings.ReplaceAll(string(out), "\x00", "")), true
}
