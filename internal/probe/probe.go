// Package probe reads basic audio properties from formats no built-in
// parser handles, by handing the bytes to an external decoder.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	jsoniter "github.com/json-iterator/go"

	"github.com/simonhull/audioprobe/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// waitDelay bounds how long a killed ffprobe may keep its pipes open.
const waitDelay = time.Second

// Properties are the fields a generic probe can recover. Tags are never read.
type Properties struct {
	Length     int // seconds, rounded
	SampleRate int
	Channels   int
}

// Prober reads audio properties from an in-memory file.
type Prober interface {
	Probe(ctx context.Context, name string, data []byte) (Properties, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, name string, data []byte) (Properties, error)

// Probe calls f(ctx, name, data).
func (f ProberFunc) Probe(ctx context.Context, name string, data []byte) (Properties, error) {
	return f(ctx, name, data)
}

// FFprobe uses ffprobe to parse audio properties.
type FFprobe struct {
	path string
}

// NewFFprobe creates a prober that runs the binary at path ("ffprobe" when empty).
func NewFFprobe(path string) *FFprobe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFprobe{path: path}
}

// LookFFprobe returns a prober for path if it resolves to an executable.
func LookFFprobe(path string) (*FFprobe, error) {
	p := NewFFprobe(path)
	resolved, err := exec.LookPath(p.path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not available: %w", err)
	}
	p.path = resolved
	return p, nil
}

// Path returns the binary the prober runs.
func (p *FFprobe) Path() string {
	return p.path
}

// Probe pipes data to ffprobe on stdin.
func (p *FFprobe) Probe(ctx context.Context, name string, data []byte) (Properties, error) {
	if err := Sniff(name, data); err != nil {
		return Properties{}, err
	}

	cmd := exec.CommandContext(ctx, p.path,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-i", "pipe:0",
	)
	cmd.Stdin = bytes.NewReader(data)
	cmd.WaitDelay = waitDelay

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Properties{}, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return Properties{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseOutput(output)
}

// Sniff rejects content that is clearly not audio, so no process is
// spawned for text files or images that happen to be passed in.
func Sniff(name string, data []byte) error {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "audio/") || strings.HasPrefix(s, "video/") {
			return nil
		}
	}
	if mt.Is("application/octet-stream") {
		return nil
	}
	return &types.UnsupportedFormatError{
		Path:   name,
		Reason: "content detected as " + mt.String(),
	}
}

// parseOutput converts ffprobe JSON to Properties. The first audio stream
// supplies sample rate and channels; the container supplies the duration.
func parseOutput(output []byte) (Properties, error) {
	var data ffprobeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return Properties{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var props Properties
	found := false
	for _, stream := range data.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		found = true
		if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
			props.SampleRate = sr
		}
		props.Channels = stream.Channels

		if stream.Duration != "" && data.Format.Duration == "" {
			data.Format.Duration = stream.Duration
		}
		break
	}
	if !found {
		return Properties{}, fmt.Errorf("no audio stream")
	}

	if data.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil && dur > 0 {
			props.Length = int(math.Round(dur))
		}
	}

	return props, nil
}

// ffprobeOutput represents ffprobe JSON output.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}
