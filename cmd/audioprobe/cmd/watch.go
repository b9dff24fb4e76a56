package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audioprobe"
	"github.com/simonhull/audioprobe/internal/catalog"
	"github.com/simonhull/audioprobe/internal/watcher"
)

func DefineWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watch <dir>",
		Short:        "Extract metadata from audio files as they appear in a directory",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunWatch,
	}

	cmd.Flags().Bool("json", false, "print one JSON record per line")
	cmd.Flags().Duration("settle", 500*time.Millisecond, "how long a file must stay unchanged before it is read")
	return cmd
}

func RunWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	settle, _ := cmd.Flags().GetDuration("settle")
	asJSON, _ := cmd.Flags().GetBool("json")

	w, err := watcher.New(log, watcher.Options{
		SettleDelay: settle,
		Accept:      audioprobe.Supported,
	})
	if err != nil {
		return err
	}
	if err := w.Add(args[0]); err != nil {
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

	opts := extractOptions(cfg, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return w.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-w.Events():
				rec, err := audioprobe.ExtractFile(ctx, ev.Path, opts...)
				if err != nil {
					log.Error("extract failed", "path", ev.Path, "error", err)
					continue
				}
				if store != nil {
					if _, err := store.Add(rec); err != nil {
						return err
					}
				}
				if err := printRecord(cmd.OutOrStdout(), rec, asJSON); err != nil {
					return err
				}
			}
		}
	})

	log.Info("watching for audio files", "dir", args[0], "settle", settle)
	return g.Wait()
}
