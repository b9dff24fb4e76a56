package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe/internal/m4a"
)

func DefineAtomsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "atoms <file>",
		Short:        "Print the atom tree of an MP4/M4A file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunAtoms,
	}
}

func RunAtoms(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return m4a.Dump(cmd.OutOrStdout(), data, filepath.Base(args[0]))
}
