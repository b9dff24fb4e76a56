package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe"
	"github.com/simonhull/audioprobe/internal/probe"
)

func DefineFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the file extensions with a built-in parser",
		Long: `The 'formats' command lists every extension handled by a built-in parser,
and whether directory walks pick it up. Other extensions are handed to ffprobe when it is available.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunFormats,
	}
}

func RunFormats(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXT\tWALKED")

	for _, ext := range audioprobe.SupportedExtensions() {
		walked := "no"
		if audioprobe.Supported("x." + ext) {
			walked = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", ext, walked)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if p, err := probe.LookFFprobe(cfg.Probe.FFprobePath); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nother extensions: %s\n", p.Path())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "\nother extensions: ffprobe not found, defaults only")
	}
	return nil
}

