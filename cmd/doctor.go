package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/config"
	"github.com/kamusis/pfam-cli/internal/hmmer"
	"github.com/kamusis/pfam-cli/internal/pfam"
)

var doctorDataDir string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that HMMER is installed, the configuration is valid and the Pfam
database is complete. Run this command when something seems wrong.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorDataDir, "pfam-data-dir", "", "Pfam data directory (default ~/.pfam/data/Pfam)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	rep := reporter(cmd)
	problems := 0
	fail := func(name, format string, args ...any) {
		rep.Error(name, fmt.Sprintf(format, args...))
		problems++
	}

	rep.Section("pfam doctor")

	// ── Configuration ─────────────────────────────────────────────────────────
	fmt.Fprintln(out, "\n[ pfam.yaml ]")
	cfg, loadErr := config.Load()
	if loadErr != nil {
		fail("", "%v", loadErr)
		cfg = config.DefaultConfig()
	} else {
		cfgPath, _ := config.ConfigPath()
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			rep.Skip("", "no config file; using defaults (run 'pfam config --write' to create one)")
		} else {
			rep.OK("", fmt.Sprintf("valid: %s", cfgPath))
		}
		rep.Info("mirror", cfg.Mirror)
	}
	if _, err := hmmer.NewRunner(hmmer.Config{Program: cfg.HMMERProgram, NumThreads: cfg.NumThreads}, nil); err != nil {
		fail("hmmer_program", "%v", err)
	}

	// ── HMMER binaries ────────────────────────────────────────────────────────
	fmt.Fprintln(out, "\n[ HMMER ]")
	for _, bin := range []string{cfg.HMMPress, cfg.HMMERProgram} {
		path, err := exec.LookPath(bin)
		if err != nil {
			fail(bin, "not found on PATH; install HMMER from http://hmmer.org")
			continue
		}
		rep.OK(bin, path+versionSuffix(path))
	}

	// ── Reference directory ───────────────────────────────────────────────────
	fmt.Fprintln(out, "\n[ Pfam data ]")
	dataDir, err := effectiveDataDir(doctorDataDir)
	if err != nil {
		fail("", "%v", err)
	} else {
		rep.Info("", dataDir)
		problems += reportDirState(rep, pfam.Dir(dataDir))
		if c, err := pfam.LoadCatalog(pfam.Dir(dataDir)); err == nil {
			rep.OK(pfam.ClanFile, plural(c.Len(), "accession"))
		} else if pfam.Dir(dataDir).Ready() {
			fail(pfam.ClanFile, "%v", err)
		}
	}

	fmt.Fprintln(out, "\n===================")
	if problems > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found %s", plural(problems, "issue"))
	}
	fmt.Fprintln(out, "✓  All checks passed. pfam is ready to use.")
	return nil
}

// versionSuffix asks a HMMER binary for its banner version line.
func versionSuffix(path string) string {
	b, err := exec.Command(path, "-h").Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(b), "\n") {
		if strings.HasPrefix(line, "# HMMER ") {
			return " (" + strings.TrimSpace(strings.TrimPrefix(line, "# ")) + ")"
		}
	}
	return ""
}
