package types

import (
	"fmt"
	"strings"
)

// Default tag values used before any parser runs.
const (
	UnknownArtist  = "Unknown Artist"
	UnknownAlbum   = "Unknown Album"
	UnknownLibrary = "Unknown"
)

// Record is the metadata extracted from one audio file.
//
// Integer fields use 0 for "absent".
type Record struct {
	Filename string `json:"filename"`
	Size     uint64 `json:"size"`
	Format   Format `json:"format"`

	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtist string `json:"album_artist,omitempty"`
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	Year        int    `json:"year,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`

	Length        int         `json:"length"`
	SampleRate    int         `json:"samplerate"`
	Channels      int         `json:"channels"`
	Mode          Mode        `json:"mode"`
	BitsPerSample int         `json:"bits_per_sample,omitempty"`
	Bitrate       int         `json:"bitrate,omitempty"`
	BitrateMode   BitrateMode `json:"bitrate_mode"`

	WritingLibrary   string  `json:"writing_library"`
	EncodingSettings string  `json:"encoding_settings,omitempty"`
	Quality          Quality `json:"quality"`

	// DSDVersion is set for DSDIFF files only (DSD64, DSD128, ...).
	DSDVersion string `json:"dsd_version,omitempty"`

	// Warnings are diagnostics collected during parsing.
	Warnings []Warning `json:"-"`
}

// NewRecord returns a record holding the defaults for filename.
func NewRecord(filename string, size uint64) Record {
	return Record{
		Filename:       filename,
		Size:           size,
		Format:         FormatFromName(filename),
		Artist:         UnknownArtist,
		Album:          UnknownAlbum,
		Title:          Stem(filename),
		BitrateMode:    BitrateUnknown,
		WritingLibrary: UnknownLibrary,
	}
}

// Stem returns name without its final extension.
func Stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 || strings.ContainsRune(name[i+1:], '/') {
		return name
	}
	return name[:i]
}

// String returns a short technical summary.
// Example output: "FLAC 44.1kHz 16-bit stereo lossless".
func (r Record) String() string {
	parts := []string{string(r.Format)}
	if r.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(r.SampleRate)/1000))
	}
	if r.BitsPerSample > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", r.BitsPerSample))
	}
	parts = append(parts, channelDescription(r.Channels))

	switch {
	case r.Quality == QualityLossless:
		parts = append(parts, "lossless")
	case r.Bitrate > 0:
		q := fmt.Sprintf("%dkbps", r.Bitrate)
		if r.BitrateMode == BitrateVariable {
			q += " VBR"
		}
		parts = append(parts, q)
	}

	return join(parts, " ")
}

// IsHighRes reports whether the sample rate exceeds 48kHz or the bit depth exceeds 16.
func (r Record) IsHighRes() bool {
	return r.SampleRate > 48000 || r.BitsPerSample > 16
}

func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
