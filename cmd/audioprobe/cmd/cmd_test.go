package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audioprobe"
	"github.com/simonhull/audioprobe/internal/catalog"
)

// createFLAC builds a FLAC stream holding only a STREAMINFO block.
func createFLAC(seconds uint64) []byte {
	info := make([]byte, 34)
	binary.BigEndian.PutUint64(info[10:], 44100<<44|1<<41|15<<36|44100*seconds)

	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0, 0, byte(len(info))})
	buf.Write(info)
	return buf.Bytes()
}

func atom(typ string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(out, uint32(8+len(payload)))
	copy(out[4:], typ)
	return append(out, payload...)
}

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--ffprobe", filepath.Join(t.TempDir(), "no-ffprobe"), "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestExtract_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A1 Band - Opener.flac")
	require.NoError(t, os.WriteFile(path, createFLAC(90), 0o644))

	out, err := run(t, "extract", "--json", path)
	require.NoError(t, err)

	var rec audioprobe.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Band", rec.Artist)
	assert.Equal(t, "Opener", rec.Title)
	assert.Equal(t, 90, rec.Length)
	assert.Equal(t, audioprobe.QualityLossless, rec.Quality)
}

func TestExtract_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "03 Song.flac")
	require.NoError(t, os.WriteFile(path, createFLAC(125), 0o644))

	out, err := run(t, "extract", path)
	require.NoError(t, err)

	assert.Contains(t, out, "03 Song.flac\n")
	assert.Contains(t, out, "Title:     Song\n")
	assert.Contains(t, out, "Track:     3\n")
	assert.Contains(t, out, "Length:    2m5s\n")
	assert.Contains(t, out, "Size:      42 B\n")
	assert.Contains(t, out, "FLAC 44.1kHz 16-bit stereo lossless")
}

func TestExtract_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "disc1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "disc1", "01 a.flac"), createFLAC(1), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02 b.flac"), createFLAC(2), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte{0xFF, 0xD8}, 0o644))

	out, err := run(t, "extract", "--json", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.NotContains(t, out, "cover.jpg")
}

func TestExtract_Catalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.flac")
	require.NoError(t, os.WriteFile(path, createFLAC(10), 0o644))
	db := filepath.Join(dir, "catalog.db")

	_, err := run(t, "extract", "--catalog", db, path)
	require.NoError(t, err)

	store, err := catalog.Open(db, nil)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "song.flac", entries[0].Filename)
	assert.Equal(t, 10, entries[0].Length)
}

func TestExtract_MissingPath(t *testing.T) {
	_, err := run(t, "extract", filepath.Join(t.TempDir(), "missing.flac"))
	assert.Error(t, err)
}

func TestExtract_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	require.NoError(t, os.WriteFile(path, createFLAC(1), 0o644))

	_, err := run(t, "extract", "--log-format", "xml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestCollectPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	explicit := filepath.Join(dir, "c.ogg")
	require.NoError(t, os.WriteFile(explicit, nil, 0o644))

	paths, err := collectPaths([]string{dir, explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.mp3"), explicit}, paths)
}

func TestFormats(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)

	assert.Contains(t, out, "EXT")
	assert.Contains(t, out, "mp3   yes")
	assert.Contains(t, out, "aac   no")
	assert.Contains(t, out, "ffprobe not found")
}

func TestAtoms(t *testing.T) {
	data := append(
		atom("ftyp", []byte("M4A \x00\x00\x00\x00")),
		atom("moov", atom("free", []byte{0}))...,
	)
	path := filepath.Join(t.TempDir(), "a.m4a")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := run(t, "atoms", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ftyp (size: 16, offset: 0)\n")
	assert.Contains(t, out, "moov (size: 17, offset: 16)\n")
	assert.Contains(t, out, "  free (size: 9, offset: 24)\n")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, audioprobe.Version)
}

func TestCatalogCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "B1 Band - Track.flac")
	require.NoError(t, os.WriteFile(path, createFLAC(60), 0o644))
	db := filepath.Join(dir, "catalog.db")

	_, err := run(t, "extract", "--catalog", db, path)
	require.NoError(t, err)

	out, err := run(t, "catalog", "list", "--catalog", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "B1 Band - Track.flac")
	assert.Contains(t, lines[1], "1m0s")
	id := strings.Fields(lines[1])[0]

	out, err = run(t, "catalog", "show", "--catalog", db, id)
	require.NoError(t, err)
	var entry catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "Band", entry.Artist)

	out, err = run(t, "catalog", "rm", "--catalog", db, id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+id)

	_, err = run(t, "catalog", "show", "--catalog", db, id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalog_NotConfigured(t *testing.T) {
	t.Setenv("AUDIOPROBE_CATALOG", "")
	_, err := run(t, "catalog", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog configured")
}
