package m4a

import (
	"math"

	"github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// Audio sample entry layout, relative to the start of the entry: an
// 8-byte box header, 6 reserved bytes and data_reference_index, then
// the AudioSampleEntry fields.
const (
	entryVersionOffset    = 16 // QuickTime version in the first reserved u16
	entryChannelsOffset   = 24 // channelcount
	entrySampleSizeOffset = 26 // samplesize
	entrySampleRateOffset = 32 // samplerate, 16.16 fixed point
	entryChildrenOffset   = 36 // first child box (esds, alac, dfLa)
)

// Extra bytes a QuickTime sound description carries before its children.
var soundDescriptionExtension = map[uint16]int64{
	1: 16,
	2: 36,
}

// ES descriptor tags
const (
	tagESDescriptor     = 0x03
	tagDecoderConfig    = 0x04
	esFlagStreamDepends = 0x80
	esFlagURL           = 0x40
	esFlagOCRStream     = 0x20
)

// childrenOffset returns where the boxes nested in a sample entry begin.
func childrenOffset(buf *binary.Buffer, entry *Atom) int64 {
	start := entry.Offset + entryChildrenOffset
	version, err := binary.Read[uint16](buf, entry.Offset+entryVersionOffset, "sound description version")
	if err != nil {
		return start
	}
	return start + soundDescriptionExtension[version]
}

// parseALACEntry reads the ALAC magic cookie nested in an alac sample entry.
//
// Cookie layout after version/flags: frameLength(4) compatibleVersion(1)
// bitDepth(1) pb(1) mb(1) kb(1) numChannels(1) maxRun(2) maxFrameBytes(4)
// avgBitRate(4) sampleRate(4).
func parseALACEntry(buf *binary.Buffer, entry *Atom, b *types.Builder) {
	rec := &b.Record
	rec.Format = types.FormatALAC

	cookie, err := findAtom(buf, childrenOffset(buf, entry), entry.End(), "alac")
	if err != nil {
		b.WarnErr("m4a", err, entry.Offset)
		return
	}

	config := cookie.DataOffset() + 4
	if config+24 > entry.End() {
		b.Warn("m4a", "ALAC cookie too short", cookie.Offset)
		return
	}

	cr := binary.NewChainReader(binary.NewReader(buf, config+5))
	bits := binary.ReadChained[uint8](cr, "alac bit depth")
	cr.Skip(3) // pb, mb, kb
	channels := binary.ReadChained[uint8](cr, "alac channels")
	cr.Skip(10) // maxRun, maxFrameBytes, avgBitRate
	rate := binary.ReadChained[uint32](cr, "alac sample rate")
	if err := cr.Error(); err != nil {
		b.WarnErr("m4a", err, config)
		return
	}

	rec.BitsPerSample = int(bits)
	rec.Channels = int(channels)
	rec.Mode = types.ModeFromChannels(rec.Channels)
	if rate > 0 && b.Once(types.FieldSampleRate) {
		rec.SampleRate = int(rate)
	}
}

// parseMP4AEntry reads channel count, sample size and rate from an mp4a
// sample entry, then the bitrate from its esds box.
func parseMP4AEntry(buf *binary.Buffer, entry *Atom, b *types.Builder) {
	rec := &b.Record

	if entry.Offset+entrySampleRateOffset+4 <= entry.End() {
		cr := binary.NewChainReader(binary.NewReader(buf, entry.Offset+entryChannelsOffset))
		channels := binary.ReadChained[uint16](cr, "mp4a channels")
		bits := binary.ReadChained[uint16](cr, "mp4a sample size")
		cr.Skip(entrySampleRateOffset - entrySampleSizeOffset - 2) // compression ID, packet size
		rate := binary.ReadChained[uint32](cr, "mp4a sample rate")
		if err := cr.Error(); err != nil {
			b.WarnErr("m4a", err, entry.Offset)
			return
		}

		rec.Channels = int(channels)
		rec.BitsPerSample = int(bits)
		rec.Mode = types.ModeFromChannels(rec.Channels)
		// 16.16 fixed point
		if rate>>16 > 0 && b.Once(types.FieldSampleRate) {
			rec.SampleRate = int(rate >> 16)
		}
	}

	esds, err := findAtom(buf, childrenOffset(buf, entry), entry.End(), "esds")
	if err != nil {
		return
	}
	payload, err := buf.Slice(esds.DataOffset(), int64(esds.DataSize()), "esds")
	if err != nil {
		b.WarnErr("m4a", err, esds.Offset)
		return
	}

	cfg, ok := parseESDescriptors(payload)
	if !ok {
		b.Warn("m4a", "no decoder config in esds", esds.Offset)
		return
	}
	if kbps := cfg.kbps(); kbps > 0 {
		rec.Bitrate = kbps
	}
}

// decoderConfig holds the DecoderConfigDescriptor fields used for bitrate.
type decoderConfig struct {
	ObjectType uint8
	MaxBitrate uint32
	AvgBitrate uint32
}

// kbps prefers the average bitrate and falls back to the maximum.
func (c decoderConfig) kbps() int {
	if c.AvgBitrate > 0 {
		return int(math.Round(float64(c.AvgBitrate) / 1000))
	}
	return int(math.Round(float64(c.MaxBitrate) / 1000))
}

// parseESDescriptors walks an esds payload (starting at version/flags)
// down to the DecoderConfigDescriptor.
func parseESDescriptors(data []byte) (decoderConfig, bool) {
	pos := 4 // version + flags

	// Descriptor lengths use 7 bits per byte with a continuation flag.
	readSize := func() int {
		size := 0
		for i := 0; i < 4 && pos < len(data); i++ {
			b := data[pos]
			pos++
			size = (size << 7) | int(b&0x7F)
			if b&0x80 == 0 {
				return size
			}
		}
		return -1
	}

	if pos >= len(data) || data[pos] != tagESDescriptor {
		return decoderConfig{}, false
	}
	pos++
	if readSize() < 0 || pos+3 > len(data) {
		return decoderConfig{}, false
	}

	// ES_ID(2) flags(1)
	flags := data[pos+2]
	pos += 3
	if flags&esFlagStreamDepends != 0 {
		pos += 2
	}
	if flags&esFlagURL != 0 {
		if pos >= len(data) {
			return decoderConfig{}, false
		}
		pos += 1 + int(data[pos])
	}
	if flags&esFlagOCRStream != 0 {
		pos += 2
	}

	for pos < len(data) {
		tag := data[pos]
		pos++
		size := readSize()
		if size < 0 {
			return decoderConfig{}, false
		}
		if tag == tagDecoderConfig {
			// objectType(1) streamType(1) bufferSize(3) maxBitrate(4) avgBitrate(4)
			cfg := binary.NewBuffer(data, "esds")
			cr := binary.NewChainReader(binary.NewReader(cfg, int64(pos)))
			objectType := binary.ReadChained[uint8](cr, "object type")
			cr.Skip(4) // stream type, buffer size
			maxBitrate := binary.ReadChained[uint32](cr, "max bitrate")
			avgBitrate := binary.ReadChained[uint32](cr, "avg bitrate")
			if cr.Error() != nil {
				return decoderConfig{}, false
			}
			return decoderConfig{ObjectType: objectType, MaxBitrate: maxBitrate, AvgBitrate: avgBitrate}, true
		}
		pos += size
	}
	return decoderConfig{}, false
}
