package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/command"
	"github.com/kamusis/pfam-cli/internal/config"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/remote"
	"github.com/kamusis/pfam-cli/internal/setup"
)

type setupFlags struct {
	dataDir     string
	version     string
	reset       bool
	lockTimeout time.Duration
}

var setupOpts setupFlags

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Download, verify and index the Pfam database",
	Long: `Download the Pfam profiles, version file and clan map from the configured
mirror, verify them against the release md5_checksums, decompress them and
index the profiles with hmmpress.

Without --pfam-data-dir the database lives in ~/.pfam/data/Pfam. --reset wipes
that directory first; it is refused for directories given with --pfam-data-dir.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupOpts.dataDir, "pfam-data-dir", "", "Directory to install Pfam into (default ~/.pfam/data/Pfam)")
	setupCmd.Flags().StringVar(&setupOpts.version, "pfam-version", "", "Pfam release to install, e.g. 31.0 (default: current release)")
	setupCmd.Flags().BoolVar(&setupOpts.reset, "reset", false, "Remove the default data directory and set it up again")
	setupCmd.Flags().DurationVar(&setupOpts.lockTimeout, "lock-timeout", 5*time.Second, "How long to wait for another setup to finish")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	debug, err := debugEnabled()
	if err != nil {
		return err
	}
	custom, def, err := dataDirs(setupOpts.dataDir)
	if err != nil {
		return err
	}

	rep := reporter(cmd)
	mgr, err := setup.New(setup.Options{
		DataDir:    custom,
		DefaultDir: def,
		Mirror:     cfg.Mirror,
		Version:    setupOpts.version,
		Reset:      setupOpts.reset,
		Debug:      debug,
	}, remote.NewClient(&http.Client{}, rep), setup.HMMPress{Binary: cfg.HMMPress}, rep)
	if err != nil {
		return err
	}

	if err := command.Available(cfg.HMMPress); err != nil {
		return pfam.WrapConfig(err, "pfam setup needs HMMER's indexing program; install HMMER (http://hmmer.org) or set hmmpress in ~/.pfam/pfam.yaml")
	}

	unlock, err := acquireSetupLock(setupOpts.lockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := mgr.Run(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nNext: pfam contigs import --db CONTIGS.db proteins.fa && pfam run --db CONTIGS.db\n")
	return nil
}
