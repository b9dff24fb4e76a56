package id3

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bin "github.com/simonhull/audioprobe/internal/binary"
	"github.com/simonhull/audioprobe/internal/types"
)

// synchsafe encodes n as a 4-byte synchsafe integer.
func synchsafe(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

// textFrame builds an ID3v2.3 frame with a big-endian size.
func textFrame(id string, enc byte, payload []byte) []byte {
	var f bytes.Buffer
	f.WriteString(id)
	binary.Write(&f, binary.BigEndian, uint32(len(payload)+1))
	f.Write([]byte{0, 0})
	f.WriteByte(enc)
	f.Write(payload)
	return f.Bytes()
}

// textFrameV24 builds an ID3v2.4 frame with a synchsafe size.
func textFrameV24(id string, enc byte, payload []byte) []byte {
	var f bytes.Buffer
	f.WriteString(id)
	f.Write(synchsafe(len(payload) + 1))
	f.Write([]byte{0, 0})
	f.WriteByte(enc)
	f.Write(payload)
	return f.Bytes()
}

// createTag builds an ID3v2.3 tag around frames, followed by padding bytes.
func createTag(padding int, frames ...[]byte) []byte {
	return createVersionedTag(3, padding, frames...)
}

func createVersionedTag(version byte, padding int, frames ...[]byte) []byte {
	var body bytes.Buffer
	for _, f := range frames {
		body.Write(f)
	}
	body.Write(make([]byte, padding))

	var tag bytes.Buffer
	tag.WriteString("ID3")
	tag.Write([]byte{version, 0, 0})
	tag.Write(synchsafe(body.Len()))
	tag.Write(body.Bytes())
	return tag.Bytes()
}

func TestDecodeSynchsafe(t *testing.T) {
	assert.Equal(t, uint32(257), DecodeSynchsafe([]byte{0x00, 0x00, 0x02, 0x01}))
	assert.Equal(t, uint32(0x0FFFFFFF), DecodeSynchsafe([]byte{0x7F, 0x7F, 0x7F, 0x7F}))
	assert.Equal(t, uint32(0), DecodeSynchsafe([]byte{0x01}))
}

func TestTagSize(t *testing.T) {
	data := append([]byte("ID3\x03\x00\x00"), 0x00, 0x00, 0x02, 0x01)
	assert.Equal(t, int64(267), TagSize(bin.NewBuffer(data, "a.mp3")))

	assert.Zero(t, TagSize(bin.NewBuffer([]byte("RIFF0000WAVE"), "a.mp3")))
	assert.Zero(t, TagSize(bin.NewBuffer([]byte("ID3"), "a.mp3")))
}

func TestRead_TextFrames(t *testing.T) {
	data := createTag(64,
		textFrame("TPE1", encISO88591, []byte("Caf\xe9 Tacvba")),
		textFrame("TALB", encUTF8, []byte("Re\x00")),
		textFrame("TIT2", encUTF16, []byte{0xFF, 0xFE, 'O', 0, 'k', 0, 0, 0}),
		textFrame("TPE2", encUTF16, []byte{0xFE, 0xFF, 0, 'V', 0, 'A'}),
		textFrame("TCON", encUTF16BE, []byte{0, 'R', 0, 'o', 0, 'c', 0, 'k'}),
		textFrame("TYER", encISO88591, []byte("Recorded 1994-05")),
		textFrame("TRCK", encISO88591, []byte("3/12")),
		textFrame("TPOS", encISO88591, []byte("2")),
	)

	tags, err := Read(bin.NewBuffer(data, "a.mp3"))
	require.NoError(t, err)

	assert.Equal(t, "Café Tacvba", tags.Artist)
	assert.Equal(t, "Re", tags.Album)
	assert.Equal(t, "Ok", tags.Title)
	assert.Equal(t, "VA", tags.AlbumArtist)
	assert.Equal(t, "Rock", tags.Genre)
	assert.Equal(t, 1994, tags.Year)
	assert.Equal(t, 3, tags.TrackNumber)
	assert.Equal(t, 2, tags.DiscNumber)
}

func TestRead_UTF16WithoutBOMIsLittleEndian(t *testing.T) {
	data := createTag(0, textFrame("TIT2", encUTF16, []byte{'H', 0, 'i', 0}))

	tags, err := Read(bin.NewBuffer(data, "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "Hi", tags.Title)
}

func TestDecodeText_DropsBOM(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  byte
	}{
		{"UTF-16BE with BOM", []byte{0xFE, 0xFF, 0, 'A', 0, 'b'}, encUTF16BE},
		{"UTF-16BE without BOM", []byte{0, 'A', 0, 'b'}, encUTF16BE},
		{"UTF-8 with BOM", []byte{0xEF, 0xBB, 0xBF, 'A', 'b'}, encUTF8},
		{"UTF-16 little-endian BOM", []byte{0xFF, 0xFE, 'A', 0, 'b', 0}, encUTF16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeText(tt.data, tt.enc)
			require.True(t, ok)
			assert.Equal(t, "Ab", got)
		})
	}
}

func TestRead_V24SynchsafeFrameSize(t *testing.T) {
	long := bytes.Repeat([]byte("x"), 199)
	data := createVersionedTag(4, 0,
		textFrameV24("TIT2", encISO88591, long),
		textFrameV24("TPE1", encUTF8, []byte("\xEF\xBB\xBFAfter")),
	)

	tags, err := Read(bin.NewBuffer(data, "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, string(long), tags.Title)
	assert.Equal(t, "After", tags.Artist)
}

func TestRead_EncoderPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]byte
		want   string
	}{
		{
			name:   "TSSE after TENC wins",
			frames: [][]byte{textFrame("TENC", 0, []byte("iTunes")), textFrame("TSSE", 0, []byte("LAME 3.100"))},
			want:   "LAME 3.100",
		},
		{
			name:   "TENC does not replace TSSE",
			frames: [][]byte{textFrame("TSSE", 0, []byte("LAME 3.100")), textFrame("TENC", 0, []byte("iTunes"))},
			want:   "LAME 3.100",
		},
		{
			name:   "TENC alone",
			frames: [][]byte{textFrame("TENC", 0, []byte("iTunes"))},
			want:   "iTunes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := Read(bin.NewBuffer(createTag(0, tt.frames...), "a.mp3"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tags.WritingLibrary)
		})
	}
}

func TestRead_StopsAtInvalidFrameID(t *testing.T) {
	data := createTag(0,
		textFrame("TPE1", 0, []byte("First")),
		textFrame("tit2", 0, []byte("lower case id")),
		textFrame("TALB", 0, []byte("Never read")),
	)

	tags, err := Read(bin.NewBuffer(data, "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "First", tags.Artist)
	assert.Empty(t, tags.Title)
	assert.Empty(t, tags.Album)
}

func TestRead_StopsAtOversizedFrame(t *testing.T) {
	good := textFrame("TPE1", 0, []byte("Kept"))
	bad := []byte("TALB\x00\x00\x10\x00\x00\x00\x00abc")
	data := createTag(0, good, bad)

	tags, err := Read(bin.NewBuffer(data, "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "Kept", tags.Artist)
	assert.Empty(t, tags.Album)
}

func TestRead_NotATag(t *testing.T) {
	_, err := Read(bin.NewBuffer([]byte("fLaC\x00\x00\x00\x22\x00\x00"), "a.flac"))

	var corrupted *types.CorruptedFileError
	assert.ErrorAs(t, err, &corrupted)
}

func TestHasV1Trailer(t *testing.T) {
	data := make([]byte, 300)
	assert.False(t, HasV1Trailer(bin.NewBuffer(data, "a.mp3")))

	copy(data[300-128:], "TAG")
	assert.True(t, HasV1Trailer(bin.NewBuffer(data, "a.mp3")))

	assert.False(t, HasV1Trailer(bin.NewBuffer([]byte("TAG"), "a.mp3")))
}
