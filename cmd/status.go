package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

var statusDataDir string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the local Pfam reference directory",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusDataDir, "pfam-data-dir", "", "Pfam data directory (default ~/.pfam/data/Pfam)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	dataDir, err := effectiveDataDir(statusDataDir)
	if err != nil {
		return err
	}
	rep := reporter(cmd)
	rep.Section("Pfam data directory")
	rep.Info("", dataDir)
	reportDirState(rep, pfam.Dir(dataDir))
	return nil
}

// reportDirState prints one line per tracked file and the index. It returns
// the number of problems found.
func reportDirState(rep report.Reporter, dir pfam.Dir) int {
	problems := 0
	for _, f := range pfam.ReferenceFiles {
		plain := dir.Path(f.Local())
		switch {
		case statSize(plain) >= 0:
			rep.OK(f.Local(), report.HumanBytes(statSize(plain)))
		case statSize(dir.Path(f.Remote)) >= 0:
			rep.Warn(f.Local(), "still compressed; it will be unpacked by 'pfam run'")
		default:
			rep.Error(f.Local(), "missing; run 'pfam setup'")
			problems++
		}
	}

	switch {
	case dir.Indexed():
		rep.OK("index", "hmmpress artifacts present")
	case dir.HasProfile():
		rep.Warn("index", "profiles not indexed yet; 'pfam run' will index them")
	default:
		rep.Skip("index", "no profiles")
	}

	if v, err := pfam.LoadVersion(dir); err == nil {
		rep.Info("version", v.String())
	}
	return problems
}

// statSize returns the size of p, or -1 when it does not exist.
func statSize(p string) int64 {
	info, err := os.Stat(p)
	if err != nil {
		return -1
	}
	return info.Size()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
