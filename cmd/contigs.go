package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/contigs"
	"github.com/kamusis/pfam-cli/internal/pfam"
)

var (
	contigsDB     string
	contigsSource string
)

var contigsCmd = &cobra.Command{
	Use:   "contigs",
	Short: "Manage the contigs database searched by 'pfam run'",
}

var contigsImportCmd = &cobra.Command{
	Use:   "import FASTA",
	Short: "Load amino-acid sequences into a contigs database",
	Long: `Load every record of a protein FASTA file into the contigs database,
creating it if needed. Genes get caller ids in file order, after any genes
already stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runContigsImport,
}

var contigsFunctionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List stored gene function calls",
	Args:  cobra.NoArgs,
	RunE:  runContigsFunctions,
}

func init() {
	contigsCmd.PersistentFlags().StringVar(&contigsDB, "db", "", "Contigs database path (required)")
	_ = contigsCmd.MarkPersistentFlagRequired("db")
	contigsFunctionsCmd.Flags().StringVar(&contigsSource, "source", pfam.Source, "Functional annotation source")
	contigsCmd.AddCommand(contigsImportCmd, contigsFunctionsCmd)
	rootCmd.AddCommand(contigsCmd)
}

func runContigsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", args[0], err)
	}
	defer f.Close()

	db, err := contigs.Open(contigsDB, true)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.ImportFASTA(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	reporter(cmd).OK("", fmt.Sprintf("imported %s into %s", plural(n, "sequence"), contigsDB))
	return nil
}

func runContigsFunctions(cmd *cobra.Command, _ []string) error {
	db, err := contigs.Open(contigsDB, false)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	rep := reporter(cmd)
	src, ok, err := db.Source(ctx, contigsSource)
	if err != nil {
		return err
	}
	if !ok {
		rep.Skip(contigsSource, "not run on this database")
		return nil
	}
	if src.Empty() {
		rep.Info(contigsSource, fmt.Sprintf("ran %s with zero hits (run %s)", src.AddedAt.Format("2006-01-02 15:04"), src.RunID))
		return nil
	}
	calls, err := db.Functions(ctx, contigsSource)
	if err != nil {
		return err
	}
	rep.Info(contigsSource, fmt.Sprintf("%s (run %s)", plural(len(calls), "function call"), src.RunID))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GENE\tACCESSION\tE-VALUE\tFUNCTION")
	for _, c := range calls {
		fmt.Fprintf(w, "%d\t%s\t%.3g\t%s\n", c.GeneCallerID, c.Accession, c.EValue, c.Function)
	}
	return w.Flush()
}
