package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord("01 - Intro.flac", 1024)

	assert.Equal(t, "01 - Intro.flac", r.Filename)
	assert.Equal(t, uint64(1024), r.Size)
	assert.Equal(t, FormatFLAC, r.Format)
	assert.Equal(t, UnknownArtist, r.Artist)
	assert.Equal(t, UnknownAlbum, r.Album)
	assert.Equal(t, "01 - Intro", r.Title)
	assert.Equal(t, UnknownLibrary, r.WritingLibrary)
	assert.Equal(t, BitrateUnknown, r.BitrateMode)
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"song.mp3":       "song",
		"a.b.c":          "a.b",
		"noext":          "noext",
		"dir.v2/file":    "dir.v2/file",
		"ends.with.dot.": "ends.with.dot.",
		"A1 - Title.dff": "A1 - Title",
	}
	for in, want := range tests {
		assert.Equal(t, want, Stem(in), in)
	}
}

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "lossless",
			rec:  Record{Format: FormatFLAC, SampleRate: 44100, BitsPerSample: 16, Channels: 2, Quality: QualityLossless},
			want: "FLAC 44.1kHz 16-bit stereo lossless",
		},
		{
			name: "vbr mp3",
			rec:  Record{Format: FormatMP3, SampleRate: 48000, Channels: 1, Bitrate: 245, BitrateMode: BitrateVariable, Quality: QualityLossy},
			want: "MP3 48.0kHz mono 245kbps VBR",
		},
		{
			name: "nothing known",
			rec:  Record{Format: FormatOther},
			want: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.String())
		})
	}
}

func TestRecord_IsHighRes(t *testing.T) {
	assert.False(t, Record{SampleRate: 44100, BitsPerSample: 16}.IsHighRes())
	assert.True(t, Record{SampleRate: 96000, BitsPerSample: 16}.IsHighRes())
	assert.True(t, Record{SampleRate: 44100, BitsPerSample: 24}.IsHighRes())
}
