package audioprobe

import (
	"github.com/simonhull/audioprobe/internal/probe"
	"github.com/simonhull/audioprobe/internal/types"
)

// Record is the metadata extracted from one audio file.
type Record = types.Record

// Format is the container label stored on a Record.
type Format = types.Format

// Re-export the format labels.
const (
	FormatMP3   = types.FormatMP3
	FormatFLAC  = types.FormatFLAC
	FormatDFF   = types.FormatDFF
	FormatM4A   = types.FormatM4A
	FormatALAC  = types.FormatALAC
	FormatAPE   = types.FormatAPE
	FormatWAV   = types.FormatWAV
	FormatAIFF  = types.FormatAIFF
	FormatWV    = types.FormatWV
	FormatOther = types.FormatOther
)

// Quality is the lossless/lossy classification.
type Quality = types.Quality

const (
	QualityLossless = types.QualityLossless
	QualityLossy    = types.QualityLossy
)

// Mode is the channel layout label.
type Mode = types.Mode

const (
	ModeMono   = types.ModeMono
	ModeStereo = types.ModeStereo
)

// BitrateMode reports whether a stream uses a constant or variable bitrate.
type BitrateMode = types.BitrateMode

const (
	BitrateUnknown  = types.BitrateUnknown
	BitrateConstant = types.BitrateConstant
	BitrateVariable = types.BitrateVariable
)

// Prober reads properties of formats without a built-in parser.
type Prober = probe.Prober

// ProberFunc adapts a function to Prober.
type ProberFunc = probe.ProberFunc

// ProbeProperties are the fields a Prober can report.
type ProbeProperties = probe.Properties
