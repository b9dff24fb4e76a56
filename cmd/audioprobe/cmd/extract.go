package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe"
	"github.com/simonhull/audioprobe/internal/catalog"
)

func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <path>...",
		Short: "Extract metadata from audio files",
		Long: `The 'extract' command prints the metadata of each file given.
Directories are walked recursively and only files with a supported extension are read.
When a catalog path is configured, every extracted record is also stored there.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunExtract,
	}

	cmd.Flags().Bool("json", false, "print one JSON record per line")
	return cmd
}

func RunExtract(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	var store *catalog.Store
	if cfg.Catalog.Path != "" {
		store, err = catalog.Open(cfg.Catalog.Path, log)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	opts := extractOptions(cfg, log)
	ctx := cmd.Context()

	var failed int
	var total uint64
	for _, path := range paths {
		rec, err := audioprobe.ExtractFile(ctx, path, opts...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("extract failed", "path", path, "error", err)
			failed++
			continue
		}
		total += rec.Size

		for _, w := range rec.Warnings {
			log.Warn("parse warning", "path", path, "stage", w.Stage, "offset", w.Offset, "message", w.Message)
		}

		if store != nil {
			entry, err := store.Add(rec)
			if err != nil {
				return err
			}
			log.Info("record cataloged", "path", path, "id", entry.ID)
		}

		if err := printRecord(cmd.OutOrStdout(), rec, asJSON); err != nil {
			return err
		}
	}

	log.Info("extraction finished",
		"files", humanize.Comma(int64(len(paths))),
		"failed", failed,
		"read", humanize.IBytes(total),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// collectPaths expands directories into the supported files below them.
// Files named explicitly are kept whatever their extension.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && audioprobe.Supported(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return paths, nil
}
