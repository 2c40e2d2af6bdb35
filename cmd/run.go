package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/annotate"
	"github.com/kamusis/pfam-cli/internal/command"
	"github.com/kamusis/pfam-cli/internal/config"
	"github.com/kamusis/pfam-cli/internal/contigs"
	"github.com/kamusis/pfam-cli/internal/hmmer"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/setup"
)

type runFlags struct {
	db         string
	dataDir    string
	numThreads int
	program    string
	strict     bool
	tmpDir     string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Annotate the genes of a contigs database with Pfam",
	Long: `Search every gene of a contigs database against the local Pfam profiles and
store one Pfam function call per hit. Accessions missing from the Pfam catalog
are stored with a placeholder function unless --strict-accessions is given.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runOpts.db, "db", "", "Contigs database to annotate (required)")
	runCmd.Flags().StringVar(&runOpts.dataDir, "pfam-data-dir", "", "Pfam data directory (default ~/.pfam/data/Pfam)")
	runCmd.Flags().IntVar(&runOpts.numThreads, "num-threads", 0, "Threads for the HMMER search (default from config)")
	runCmd.Flags().StringVar(&runOpts.program, "hmmer-program", "", "hmmsearch or hmmscan (default from config)")
	runCmd.Flags().BoolVar(&runOpts.strict, "strict-accessions", false, "Fail on accessions missing from the Pfam catalog")
	runCmd.Flags().StringVar(&runOpts.tmpDir, "tmp-dir", "", "Parent directory for temporary files (default system temp)")
	_ = runCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	debug, err := debugEnabled()
	if err != nil {
		return err
	}
	dataDir, err := effectiveDataDir(runOpts.dataDir)
	if err != nil {
		return err
	}
	program := cfg.HMMERProgram
	if runOpts.program != "" {
		program = runOpts.program
	}
	threads := cfg.NumThreads
	if runOpts.numThreads != 0 {
		threads = runOpts.numThreads
	}

	rep := reporter(cmd)
	runner, err := hmmer.NewRunner(hmmer.Config{Program: program, NumThreads: threads}, rep)
	if err != nil {
		return err
	}
	if err := command.Available(program); err != nil {
		return pfam.WrapConfig(err, "pfam run needs HMMER; install it (http://hmmer.org) or set hmmer_program in ~/.pfam/pfam.yaml")
	}

	db, err := contigs.Open(runOpts.db, false)
	if err != nil {
		return err
	}
	defer db.Close()

	in, err := annotate.New(annotate.Config{
		DataDir:      dataDir,
		AllowUnknown: !runOpts.strict,
		Debug:        debug,
		TmpBase:      runOpts.tmpDir,
	}, annotate.Deps{
		Store:    db,
		Dataset:  db,
		Searcher: runner,
		Indexer:  setup.HMMPress{Binary: cfg.HMMPress},
		Reporter: rep,
	})
	if err != nil {
		return err
	}
	sum, err := in.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d hit(s), %d function call(s) stored in %s\n",
		sum.Outcome, sum.NumHits, sum.NumFunctions, db.Path())
	return nil
}
