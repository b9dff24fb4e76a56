package audioprobe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audioprobe/internal/binary"
	_ "github.com/simonhull/audioprobe/internal/dff"  // Register DFF parser
	_ "github.com/simonhull/audioprobe/internal/flac" // Register FLAC parser
	_ "github.com/simonhull/audioprobe/internal/m4a"  // Register MP4/M4A parser
	_ "github.com/simonhull/audioprobe/internal/mp3"  // Register MP3 parser
	"github.com/simonhull/audioprobe/internal/registry"
	"github.com/simonhull/audioprobe/internal/types"
)

// loadable is the set of extensions the file loaders accept.
var loadable = []string{"mp3", "flac", "wav", "m4a", "dff"}

// Extract parses data as the file named filename. size is the file size in
// bytes; it may differ from len(data) when only a prefix was read.
//
// Extract never fails: problems are reported on Record.Warnings and the
// affected fields keep their defaults.
func Extract(filename string, data []byte, size uint64, opts ...Option) Record {
	return ExtractContext(context.Background(), filename, data, size, opts...)
}

// ExtractContext is Extract with a context for the external prober.
func ExtractContext(ctx context.Context, filename string, data []byte, size uint64, opts ...Option) Record {
	options := newOptions(opts)
	b := types.NewBuilder(filename, size)

	ext := types.Extension(filename)
	if parser := registry.Get(ext); parser != nil {
		parser.Parse(binary.NewBuffer(data, filename), b)
	} else {
		probeProperties(ctx, options, filename, data, b)
	}

	rec := normalize(b.Build())

	options.logger.Debug("extracted metadata",
		"file", filename,
		"format", rec.Format,
		"length", rec.Length,
		"warnings", len(rec.Warnings),
	)
	for _, w := range rec.Warnings {
		options.logger.Debug("parse warning", "file", filename, "stage", w.Stage, "offset", w.Offset, "message", w.Message)
	}

	if options.ignoreWarnings {
		rec.Warnings = nil
	}
	return rec
}

// probeProperties fills length, sample rate and channels from the prober.
func probeProperties(ctx context.Context, options *extractOptions, filename string, data []byte, b *types.Builder) {
	if options.prober == nil {
		b.Warn("probe", "no prober available", 0)
		return
	}

	if options.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.probeTimeout)
		defer cancel()
	}

	props, err := options.prober.Probe(ctx, filename, data)
	if err != nil {
		b.WarnErr("probe", err, 0)
		return
	}

	b.Record.Length = props.Length
	b.Record.SampleRate = props.SampleRate
	b.Record.Channels = props.Channels
}

// ExtractFile reads the file at path and extracts its metadata. The record's
// Filename is the base name of path.
//
// The only errors returned are I/O errors and ctx cancellation.
func ExtractFile(ctx context.Context, path string, opts ...Option) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read file: %w", err)
	}

	return ExtractContext(ctx, filepath.Base(path), data, uint64(len(data)), opts...), nil
}

// ExtractFiles extracts the files at paths one at a time, in order.
//
// Results are returned in the same order as the input paths. The first
// error (an unreadable file, or ctx being cancelled) abandons the rest of
// the batch and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
//	defer cancel()
//
//	records, err := audioprobe.ExtractFiles(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
func ExtractFiles(ctx context.Context, paths []string, opts ...Option) ([]Record, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	// One at a time: Go blocks until the previous file is done, so files
	// run in submission order.
	g.SetLimit(1)

	results := make([]Record, len(paths))

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := ExtractFile(gctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Supported reports whether the file loaders should pick up path, based on
// its extension: .mp3 .flac .wav .m4a .dff.
func Supported(path string) bool {
	return slices.Contains(loadable, types.Extension(path))
}

// SupportedExtensions returns the extensions with a built-in parser.
func SupportedExtensions() []string {
	return registry.Extensions()
}
