package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe"
)

func DefineVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print version information",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := audioprobe.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			_, err := fmt.Fprintf(out, "Go:         %s\n", info.GoVersion)
			return err
		},
	}
}
