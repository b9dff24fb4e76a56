package m4a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bin "github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

func esdsPayload(t *testing.T, maxBitrate, avgBitrate uint32) []byte {
	t.Helper()
	data := createESDS(maxBitrate, avgBitrate)
	return data[8:]
}

func TestParseESDescriptors(t *testing.T) {
	cfg, ok := parseESDescriptors(esdsPayload(t, 320_000, 128_000))
	require.True(t, ok)

	assert.Equal(t, uint8(0x40), cfg.ObjectType)
	assert.Equal(t, uint32(320_000), cfg.MaxBitrate)
	assert.Equal(t, uint32(128_000), cfg.AvgBitrate)
}

func TestDecoderConfig_Kbps(t *testing.T) {
	tests := []struct {
		name string
		cfg  decoderConfig
		want int
	}{
		{"average preferred", decoderConfig{MaxBitrate: 320_000, AvgBitrate: 255_500}, 256},
		{"max fallback", decoderConfig{MaxBitrate: 192_400}, 192},
		{"neither", decoderConfig{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.kbps())
		})
	}
}

func TestParseESDescriptors_ExpandableLength(t *testing.T) {
	// Lengths written as 0x80 0x80 0x80 0x19 are common in iTunes files
	payload := []byte{
		0, 0, 0, 0,
		tagESDescriptor, 0x80, 0x80, 0x80, 0x19,
		0, 1, 0,
		tagDecoderConfig, 0x80, 0x80, 0x80, 0x11,
		0x40, 0x15, 0, 0, 0,
		0, 0x02, 0x71, 0x00, // max 160000
		0, 0x01, 0xF4, 0x00, // avg 128000
		0x05, 0x80, 0x80, 0x80, 0x02, 0x12, 0x10,
	}

	cfg, ok := parseESDescriptors(payload)
	require.True(t, ok)
	assert.Equal(t, uint32(160_000), cfg.MaxBitrate)
	assert.Equal(t, uint32(128_000), cfg.AvgBitrate)
}

func TestParseESDescriptors_OptionalFields(t *testing.T) {
	// streamDependence and URL flags set
	payload := []byte{
		0, 0, 0, 0,
		tagESDescriptor, 0x1F,
		0, 1, esFlagStreamDepends | esFlagURL,
		0, 2,             // depends on ES_ID
		3, 'a', 'b', 'c', // URL
		tagDecoderConfig, 0x0D,
		0x40, 0x15, 0, 0, 0,
		0, 0, 0xFA, 0, // max 64000
		0, 0, 0, 0,
	}

	cfg, ok := parseESDescriptors(payload)
	require.True(t, ok)
	assert.Equal(t, 64, cfg.kbps())
}

func TestParseESDescriptors_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"wrong tag", []byte{0, 0, 0, 0, 0x05, 0x02, 0, 0}},
		{"no decoder config", []byte{0, 0, 0, 0, tagESDescriptor, 0x03, 0, 1, 0}},
		{"truncated decoder config", []byte{0, 0, 0, 0, tagESDescriptor, 0x08, 0, 1, 0, tagDecoderConfig, 0x0D, 0x40, 0x15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseESDescriptors(tt.data)
			assert.False(t, ok)
		})
	}
}

func TestParseALACEntry_ShortCookie(t *testing.T) {
	cookie := createMockAtom("alac", []byte{0, 0, 0, 0, 0, 0, 0x10, 0})
	entry := soundEntry("alac", 2, 16, 0, cookie)
	buf := bin.NewBuffer(entry, "test.m4a")
	atom, err := readAtomHeader(buf, 0)
	require.NoError(t, err)
	b := types.NewBuilder("a.m4a", 1000)

	parseALACEntry(buf, atom, b)

	assert.Equal(t, types.FormatALAC, b.Record.Format)
	assert.Zero(t, b.Record.SampleRate)
	require.Len(t, b.Record.Warnings, 1)
	assert.Contains(t, b.Record.Warnings[0].Message, "ALAC cookie too short")
}

func TestChildrenOffset_SoundDescriptionV1(t *testing.T) {
	entry := soundEntry("mp4a", 2, 16, 44100)
	entry[entryVersionOffset+1] = 1
	buf := bin.NewBuffer(entry, "test.m4a")
	atom, err := readAtomHeader(buf, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(entryChildrenOffset+16), childrenOffset(buf, atom))
}
