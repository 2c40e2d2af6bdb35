package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/config"
	"github.com/kamusis/pfam-cli/internal/report"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:          "pfam",
	Short:        "pfam: set up the Pfam database and annotate genes with it",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `pfam downloads, verifies and indexes the Pfam protein family database
under ~/.pfam/data/Pfam, and annotates the genes of a contigs database by
searching them against it with HMMER.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Keep temporary files and skip the existing-installation check (also PFAM_DEBUG=1)")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// debugEnabled combines --debug with PFAM_DEBUG.
func debugEnabled() (bool, error) {
	if debugFlag {
		return true, nil
	}
	return config.Debug()
}

// reporter returns a console reporter bound to the command's writers.
func reporter(cmd *cobra.Command) report.Reporter {
	return report.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// dataDirs resolves the reference directory. custom is the --pfam-data-dir
// value (empty when not given) and def the standard location.
func dataDirs(flagValue string) (custom, def string, err error) {
	def, err = config.DefaultDataDir()
	if err != nil {
		return "", "", err
	}
	if flagValue == "" {
		return "", def, nil
	}
	custom, err = config.ExpandPath(flagValue)
	if err != nil {
		return "", "", err
	}
	return custom, def, nil
}

// effectiveDataDir returns custom when set and def otherwise.
func effectiveDataDir(flagValue string) (string, error) {
	custom, def, err := dataDirs(flagValue)
	if err != nil {
		return "", err
	}
	if custom != "" {
		return custom, nil
	}
	return def, nil
}
