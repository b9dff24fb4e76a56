// Package dff reads DSDIFF (.dff) containers.
//
// DSD bitstreams are not decoded, so duration and bitrate are estimates
// derived from the file size.
package dff

import (
	"fmt"
	"math"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/id3"
	"github.com/simonhull/audioprobe/internal/registry"
	"github.com/simonhull/audioprobe/internal/types"
)

const (
	chunkHeaderSize = 12 // 4-byte ID + 64-bit big-endian length
	formHeaderSize  = 16 // "FRM8" + length + "DSD "

	defaultSampleRate = 2822400
	defaultChannels   = 2

	// Size estimate: share of the file taken by audio, and the assumed
	// real bitrate of a DSD64 stereo stream after container overhead.
	audioDataRatio     = 0.98
	assumedBitrateKbps = 4200
)

// dsdGenerations maps the standard DSD sample rates to their labels.
var dsdGenerations = map[uint32]string{
	2822400:  "DSD64",
	5644800:  "DSD128",
	11289600: "DSD256",
	22579200: "DSD512",
}

// DSDVersion labels a DSD sample rate. Non-standard rates are named after
// their multiple of 44.1 kHz.
func DSDVersion(rate uint32) string {
	if v, ok := dsdGenerations[rate]; ok {
		return v
	}
	return fmt.Sprintf("DSD%d", int(math.Round(float64(rate)/44100)))
}

// Chunk is a DSDIFF chunk header.
type Chunk struct {
	ID     string
	Size   uint64
	Offset int64 // offset of the chunk header
}

// DataOffset returns the offset where the chunk payload begins.
func (c Chunk) DataOffset() int64 {
	return c.Offset + chunkHeaderSize
}

// next returns the offset of the following chunk, padded to an even boundary.
func (c Chunk) next() int64 {
	n := c.DataOffset() + int64(c.Size)
	if n%2 != 0 {
		n++
	}
	return n
}

// readChunk reads the chunk header at offset. The payload must fit within limit.
func readChunk(buf *binary.Buffer, offset, limit int64) (Chunk, error) {
	id, err := buf.String(offset, 4, "chunk ID")
	if err != nil {
		return Chunk{}, err
	}
	size, err := binary.Read[uint64](buf, offset+4, "chunk size")
	if err != nil {
		return Chunk{}, err
	}
	c := Chunk{ID: id, Size: size, Offset: offset}
	if size > math.MaxInt64/2 || c.DataOffset()+int64(size) > limit {
		return c, fmt.Errorf("chunk %q at offset %d declares %d bytes past its parent", id, offset, size)
	}
	return c, nil
}

// parser implements registry.FormatParser for DSDIFF files.
type parser struct{}

// Parse validates the FRM8/DSD form, walks the top-level chunks and
// estimates duration and bitrate.
func (p *parser) Parse(buf *binary.Buffer, b *types.Builder) {
	rec := &b.Record
	rec.Format = types.FormatDFF
	rec.BitsPerSample = 1
	rec.BitrateMode = types.BitrateConstant
	rec.SampleRate = defaultSampleRate
	rec.Channels = defaultChannels
	rec.DSDVersion = DSDVersion(defaultSampleRate)

	if !buf.Match(0, "FRM8") || !buf.Match(12, "DSD ") {
		b.WarnErr("dff", &types.CorruptedFileError{
			Path:   buf.Name(),
			Reason: "missing FRM8/DSD form header",
		}, 0)
		return
	}

	for offset := int64(formHeaderSize); offset < buf.Len()-chunkHeaderSize; {
		c, err := readChunk(buf, offset, buf.Len())
		if err != nil {
			b.WarnErr("dff", err, offset)
			break
		}
		if c.Size == 0 {
			b.Warn("dff", fmt.Sprintf("empty chunk %q", c.ID), offset)
			break
		}

		payload, _ := buf.Slice(c.DataOffset(), int64(c.Size), c.ID)
		switch c.ID {
		case "PROP":
			parseProperties(binary.NewBuffer(payload, buf.Name()), b)
		case "ID3 ":
			tags, err := id3.Read(binary.NewBuffer(payload, buf.Name()))
			if err != nil {
				b.WarnErr("id3", err, c.DataOffset())
			} else {
				b.ApplyTags(tags)
			}
		}

		offset = c.next()
	}

	size := rec.Size
	if size == 0 {
		size = uint64(buf.Len())
	}
	estimate(rec, size)
}

// parseProperties walks the sub-chunks of a PROP chunk, which must have
// the SND form type.
func parseProperties(prop *binary.Buffer, b *types.Builder) {
	rec := &b.Record
	if !prop.Match(0, "SND ") {
		b.Warn("dff", "PROP chunk is not of type SND", 0)
		return
	}

	size := prop.Len()
	for offset := int64(4); offset < size-chunkHeaderSize; {
		c, err := readChunk(prop, offset, size)
		if err != nil {
			b.WarnErr("dff", err, offset)
			return
		}

		switch {
		case c.ID == "FS  " && c.Size >= 4:
			rate, _ := binary.Read[uint32](prop, c.DataOffset(), "sample rate")
			rec.SampleRate = int(rate)
			rec.DSDVersion = DSDVersion(rate)
		case c.ID == "CHNL" && c.Size >= 2:
			channels, _ := binary.Read[uint16](prop, c.DataOffset(), "channel count")
			rec.Channels = int(channels)
		}

		offset = c.next()
	}
}

// estimate fills length and bitrate from the file size.
func estimate(rec *types.Record, size uint64) {
	kbits := float64(size) * audioDataRatio * 8 / 1000
	rec.Length = int(math.Round(kbits / assumedBitrateKbps))
	if rec.Length > 0 {
		rec.Bitrate = int(math.Round(float64(size) * 8 / (float64(rec.Length) * 1000)))
	}
}

func init() {
	registry.Register(&parser{}, "dff")
}
