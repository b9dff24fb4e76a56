// Package flac reads FLAC metadata blocks.
package flac

import (
	"fmt"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/registry"
	"github.com/simonhull/audioprobe/internal/types"
	"github.com/simonhull/audioprobe/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypeVorbisComment = 4
)

// streamInfoMinSize covers everything up to the end of the total-samples field.
const streamInfoMinSize = 18

// StreamInfo holds the fields of a STREAMINFO block used by the record.
type StreamInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  uint64
}

// Seconds returns the whole-second duration, or 0 when the sample rate is unknown.
func (si StreamInfo) Seconds() int {
	if si.SampleRate == 0 {
		return 0
	}
	return int(si.TotalSamples / uint64(si.SampleRate))
}

// parser implements registry.FormatParser for FLAC files.
type parser struct{}

// Parse walks the metadata blocks until the last-block flag, or until a
// block header declares more bytes than the buffer holds.
func (p *parser) Parse(buf *binary.Buffer, b *types.Builder) {
	rec := &b.Record
	rec.Format = types.FormatFLAC
	rec.BitrateMode = types.BitrateVariable

	if !buf.Match(0, "fLaC") {
		b.WarnErr("flac", &types.CorruptedFileError{
			Path:   buf.Name(),
			Reason: "invalid FLAC magic bytes",
		}, 0)
		return
	}

	offset := int64(4)
	for offset < buf.Len()-4 {
		header, err := binary.Read[uint32](buf, offset, "metadata block header")
		if err != nil {
			b.WarnErr("flac", err, offset)
			break
		}

		isLast := header>>31 == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)

		block, err := buf.Slice(offset+4, blockLength, fmt.Sprintf("metadata block %d", blockType))
		if err != nil {
			b.WarnErr("flac", err, offset)
			break
		}

		switch blockType {
		case blockTypeStreamInfo:
			si, err := ParseStreamInfo(block)
			if err != nil {
				b.WarnErr("flac", err, offset)
				break
			}
			rec.SampleRate = si.SampleRate
			rec.Channels = si.Channels
			rec.BitsPerSample = si.BitsPerSample
			rec.Length = si.Seconds()

		case blockTypeVorbisComment:
			tags, errs := vorbis.ParseBlock(binary.NewBuffer(block, buf.Name()))
			for _, err := range errs {
				b.WarnErr("vorbis", err, offset)
			}
			b.ApplyTags(tags)
		}

		offset += 4 + blockLength
		if isLast {
			break
		}
	}
}

// ParseStreamInfo decodes the bit-packed fields in bytes 10-17 of a
// STREAMINFO payload.
func ParseStreamInfo(data []byte) (StreamInfo, error) {
	if len(data) < streamInfoMinSize {
		return StreamInfo{}, fmt.Errorf("STREAMINFO too short: %d bytes", len(data))
	}

	// [sample rate(20)] [channels-1(3)] [bits-1(5)] [total samples(36)]
	packed := uint64(data[10])<<56 | uint64(data[11])<<48 | uint64(data[12])<<40 | uint64(data[13])<<32 |
		uint64(data[14])<<24 | uint64(data[15])<<16 | uint64(data[16])<<8 | uint64(data[17])

	return StreamInfo{
		SampleRate:    int((packed >> 44) & 0xFFFFF),
		Channels:      int((packed>>41)&0x7) + 1,
		BitsPerSample: int((packed>>36)&0x1F) + 1,
		TotalSamples:  packed & 0xFFFFFFFFF,
	}, nil
}

func init() {
	registry.Register(&parser{}, "flac")
}
