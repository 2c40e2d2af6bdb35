package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/pfam"
)

var (
	familiesDataDir string
	familiesLimit   int
)

var familiesCmd = &cobra.Command{
	Use:   "families <query>",
	Short: "Search Pfam families by keyword",
	Long: `Search the accession, clan, name and function of every family in the local
Pfam catalog. All query words must match, case-insensitively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFamilies,
}

func init() {
	familiesCmd.Flags().StringVar(&familiesDataDir, "pfam-data-dir", "", "Pfam data directory (default ~/.pfam/data/Pfam)")
	familiesCmd.Flags().IntVar(&familiesLimit, "k", 20, "Maximum number of results (0 for all)")
	rootCmd.AddCommand(familiesCmd)
}

func runFamilies(cmd *cobra.Command, args []string) error {
	dataDir, err := effectiveDataDir(familiesDataDir)
	if err != nil {
		return err
	}
	catalog, err := pfam.LoadCatalog(pfam.Dir(dataDir))
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	results := catalog.Search(query, familiesLimit)
	if len(results) == 0 {
		reporter(cmd).Skip("", fmt.Sprintf("no Pfam family matches %q", query))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCESSION\tNAME\tCLAN\tFUNCTION")
	for _, e := range results {
		clan := e.Clan
		if clan == "" {
			clan = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Accession, e.Name, clan, e.Function)
	}
	return w.Flush()
}
