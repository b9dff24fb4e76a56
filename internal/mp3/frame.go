package mp3

import (
	"github.com/simonhull/audioprobe/internal/binary"
)

// MPEG version IDs as stored in header bits 19-20.
const (
	versionMPEG25   = 0
	versionReserved = 1
	versionMPEG2    = 2
	versionMPEG1    = 3
)

// Layer IDs as stored in header bits 17-18.
const (
	layerReserved = 0
	layer3        = 1
	layer2        = 2
	layer1        = 3
)

// Bitrate tables in kbps, indexed by the 4-bit bitrate index.
// Index 0 (free format) and 15 (bad) are rejected before lookup.
var (
	bitrateV1L1 = [16]int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0}
	bitrateV1L2 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0}
	bitrateV1L3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateV2L1 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0}
	bitrateV2L3 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz, indexed by version ID then sample rate index.
var sampleRateTable = [4][3]int{
	versionMPEG25:   {11025, 12000, 8000},
	versionReserved: {0, 0, 0},
	versionMPEG2:    {22050, 24000, 16000},
	versionMPEG1:    {44100, 48000, 32000},
}

// Frame is a decoded MPEG audio frame header.
type Frame struct {
	Offset     int64
	Version    uint8
	Layer      uint8
	Bitrate    int // kbps
	SampleRate int // Hz
	Channels   int
}

func bitrateTable(version, layer uint8) *[16]int {
	if version == versionMPEG1 {
		switch layer {
		case layer1:
			return &bitrateV1L1
		case layer2:
			return &bitrateV1L2
		default:
			return &bitrateV1L3
		}
	}
	if layer == layer1 {
		return &bitrateV2L1
	}
	return &bitrateV2L3
}

// decodeHeader validates and decodes a 32-bit frame header.
func decodeHeader(header uint32) (Frame, bool) {
	if header&0xFFE00000 != 0xFFE00000 {
		return Frame{}, false
	}

	version := uint8((header >> 19) & 0x3)
	layer := uint8((header >> 17) & 0x3)
	bitrateIdx := (header >> 12) & 0xF
	sampleRateIdx := (header >> 10) & 0x3
	channelMode := (header >> 6) & 0x3

	if version == versionReserved || layer == layerReserved ||
		bitrateIdx == 0 || bitrateIdx == 15 || sampleRateIdx == 3 {
		return Frame{}, false
	}

	channels := 2
	if channelMode == 3 {
		channels = 1
	}

	return Frame{
		Version:    version,
		Layer:      layer,
		Bitrate:    bitrateTable(version, layer)[bitrateIdx],
		SampleRate: sampleRateTable[version][sampleRateIdx],
		Channels:   channels,
	}, true
}

// FindFrame scans forward from start, one byte at a time, for the first
// valid frame header.
func FindFrame(buf *binary.Buffer, start int64) (Frame, bool) {
	for off := max(start, 0); off < buf.Len()-4; off++ {
		header, err := binary.Read[uint32](buf, off, "MPEG frame header")
		if err != nil {
			break
		}
		if f, ok := decodeHeader(header); ok {
			f.Offset = off
			return f, true
		}
	}
	return Frame{}, false
}

// HasXingHeader reports whether a "Xing" or "Info" tag sits at frame+36.
// This is the usual spot for MPEG1 stereo frames and is only a heuristic.
func HasXingHeader(buf *binary.Buffer, f Frame) bool {
	at := f.Offset + 36
	if !buf.Has(at, 8) {
		return false
	}
	return buf.Match(at, "Xing") || buf.Match(at, "Info")
}
