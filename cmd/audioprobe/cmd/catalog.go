package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonhull/audioprobe/internal/catalog"
)

func DefineCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the records stored by extract and watch",
		Long: `The 'catalog' commands read the database given by --catalog or AUDIOPROBE_CATALOG.
Entries are listed newest first.`,
	}

	list := &cobra.Command{
		Use:          "list",
		Short:        "List catalog entries",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunCatalogList,
	}
	show := &cobra.Command{
		Use:          "show <id>",
		Short:        "Print one catalog entry as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunCatalogShow,
	}
	remove := &cobra.Command{
		Use:          "rm <id>...",
		Short:        "Delete catalog entries",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunCatalogRemove,
	}

	cmd.AddCommand(list, show, remove)
	return cmd
}

// openCatalog opens the configured catalog; it is an error if none is set.
func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return nil, errors.New("no catalog configured: use --catalog or AUDIOPROBE_CATALOG")
	}
	return catalog.Open(cfg.Catalog.Path, log)
}

func RunCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDED\tFILE\tARTIST\tTITLE\tLENGTH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			humanize.Time(e.CreatedAt),
			e.Filename,
			e.Artist,
			e.Title,
			time.Duration(e.Length)*time.Second,
		)
	}
	return w.Flush()
}

func RunCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}

func RunCatalogRemove(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, id := range args {
		if err := store.Delete(id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
	}
	return nil
}
