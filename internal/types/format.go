package types

import (
	"path/filepath"
	"strings"
)

// Format is the container label stored on a Record.
//
// Dispatched parsers use the constants below. Files handled by the generic
// probe carry their upper-cased extension (WAV, AIFF, ...).
type Format string

const (
	FormatMP3  Format = "MP3"
	FormatFLAC Format = "FLAC"
	FormatDFF  Format = "DFF"
	FormatM4A  Format = "M4A"
	FormatALAC Format = "ALAC"
	FormatAPE  Format = "APE"
	FormatWAV  Format = "WAV"
	FormatAIFF Format = "AIFF"
	FormatWV   Format = "WV"

	// FormatOther is used when the file name has no extension.
	FormatOther Format = "Other"
)

// lossless lists the formats classified as Lossless.
var lossless = map[Format]bool{
	FormatFLAC: true,
	FormatALAC: true,
	FormatAPE:  true,
	FormatWAV:  true,
	FormatAIFF: true,
	FormatDFF:  true,
	FormatWV:   true,
}

// IsLossless reports whether f is in the lossless set.
func (f Format) IsLossless() bool {
	return lossless[f]
}

// Quality derives the quality class from the format alone.
func (f Format) Quality() Quality {
	if f.IsLossless() {
		return QualityLossless
	}
	return QualityLossy
}

// Extension returns the lower-cased extension of name without the dot,
// or "" when name has none.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// FormatFromName returns the default format label for name.
func FormatFromName(name string) Format {
	ext := Extension(name)
	if ext == "" {
		return FormatOther
	}
	return Format(strings.ToUpper(ext))
}

// Quality is the lossless/lossy classification.
type Quality string

const (
	QualityLossless Quality = "Lossless"
	QualityLossy    Quality = "Lossy"
)

// Mode is the channel layout label.
type Mode string

const (
	ModeMono   Mode = "Mono"
	ModeStereo Mode = "Stereo"
)

// ModeFromChannels maps a channel count to a Mode. Anything other than
// one channel, including an unknown count, is Stereo.
func ModeFromChannels(channels int) Mode {
	if channels == 1 {
		return ModeMono
	}
	return ModeStereo
}

// BitrateMode reports whether the stream uses a constant or variable bitrate.
type BitrateMode string

const (
	BitrateUnknown  BitrateMode = "Unknown"
	BitrateConstant BitrateMode = "Constant"
	BitrateVariable BitrateMode = "Variable"
)
