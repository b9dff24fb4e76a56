// Package mp3 reads MPEG audio streams with optional ID3v2 and ID3v1 tags.
package mp3

import (
	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/id3"
	"github.com/simonhull/audioprobe/internal/registry"
	"github.com/simonhull/audioprobe/internal/types"
)

const id3v1Size = 128

// parser implements registry.FormatParser.
type parser struct{}

// Parse reads the ID3v2 tag, the first frame header and any LAME tag.
// Each step runs regardless of whether the others succeeded. When no
// frame header is found the LAME search still covers the first 2000
// bytes, so a tag-only file can report its encoder.
func (p *parser) Parse(buf *binary.Buffer, b *types.Builder) {
	rec := &b.Record
	rec.Format = types.FormatMP3
	rec.BitrateMode = types.BitrateUnknown
	rec.BitsPerSample = 16

	if tags, err := id3.Read(buf); err != nil {
		b.WarnErr("id3", err, 0)
	} else {
		b.ApplyTags(tags)
	}

	tagSize := id3.TagSize(buf)
	frame, ok := FindFrame(buf, tagSize)
	if !ok {
		b.Warn("mpeg", "no valid frame header found", tagSize)
		if lame, ok := SniffLAMEInTags(buf); ok {
			applyLAME(b, lame)
		}
		return
	}

	rec.SampleRate = frame.SampleRate
	rec.Bitrate = frame.Bitrate
	rec.Channels = frame.Channels
	if HasXingHeader(buf, frame) {
		rec.BitrateMode = types.BitrateVariable
	} else {
		rec.BitrateMode = types.BitrateConstant
	}
	rec.Length = duration(buf, rec.Size, tagSize, frame.Bitrate)

	lame, ok := SniffLAME(buf, frame.Offset)
	if !ok {
		lame, ok = SniffLAMEInTags(buf)
	}
	if ok {
		applyLAME(b, lame)
	}
}

// applyLAME records the encoder string and claims FieldEncoder so later
// tag values cannot replace it.
func applyLAME(b *types.Builder, lame LAMEInfo) {
	if !b.Once(types.FieldEncoder) {
		return
	}
	b.Record.WritingLibrary = lame.Version
	if lame.Settings != "" {
		b.Record.EncodingSettings = lame.Settings
	}
}

// duration estimates whole seconds from the audio byte count and the
// first frame's bitrate.
func duration(buf *binary.Buffer, fileSize uint64, tagSize int64, kbps int) int {
	if kbps <= 0 {
		return 0
	}
	size := int64(fileSize)
	if size == 0 {
		size = buf.Len()
	}
	audio := size - tagSize
	if id3.HasV1Trailer(buf) {
		audio -= id3v1Size
	}
	if audio <= 0 {
		return 0
	}
	return int(audio * 8 / (int64(kbps) * 1000))
}

func init() {
	registry.Register(&parser{}, "mp3")
}
