package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe"
	"github.com/simonhull/audioprobe/internal/config"
	"github.com/simonhull/audioprobe/internal/logger"
	"github.com/simonhull/audioprobe/internal/probe"
)

const AppName = "audioprobe"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - audio metadata extraction",
	}

	flags := rootCmd.PersistentFlags()
	flags.String("env-file", "", "path to a .env file (default \".env\")")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json, text or auto")
	flags.String("probe-timeout", "", "timeout for each ffprobe run, e.g. 30s (0 disables)")
	flags.String("ffprobe", "", "path to the ffprobe binary")
	flags.String("catalog", "", "add extracted records to the catalog database at this path")

	rootCmd.AddCommand(
		DefineExtractCommand(),
		DefineWatchCommand(),
		DefineFormatsCommand(),
		DefineAtomsCommand(),
		DefineCatalogCommand(),
		DefineVersionCommand(),
	)
	return rootCmd
}

// setup loads the configuration for cmd and builds its logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	f := cmd.Flags()

	var flags config.Flags
	flags.EnvFile, _ = f.GetString("env-file")
	flags.LogLevel, _ = f.GetString("log-level")
	flags.LogFormat, _ = f.GetString("log-format")
	flags.ProbeTimeout, _ = f.GetString("probe-timeout")
	flags.FFprobe, _ = f.GetString("ffprobe")
	flags.Catalog, _ = f.GetString("catalog")

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: cfg.Logger.Format,
		Level:  logger.ParseLevel(cfg.Logger.Level),
	})
	return cfg, log, nil
}

// extractOptions maps the configuration to extraction options.
func extractOptions(cfg *config.Config, log *slog.Logger) []audioprobe.Option {
	opts := []audioprobe.Option{
		audioprobe.WithLogger(log),
		audioprobe.WithProbeTimeout(cfg.Probe.Timeout),
	}

	p, err := probe.LookFFprobe(cfg.Probe.FFprobePath)
	if err != nil {
		log.Debug("ffprobe unavailable, unknown formats keep defaults", "path", cfg.Probe.FFprobePath, "error", err)
		return append(opts, audioprobe.WithProber(nil))
	}
	return append(opts, audioprobe.WithProber(p))
}
