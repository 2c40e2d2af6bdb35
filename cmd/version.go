package cmd

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/pfam-cli/internal/config"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/remote"
	"github.com/kamusis/pfam-cli/internal/report"
	"github.com/kamusis/pfam-cli/internal/setup"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

type versionFlags struct {
	remote      bool
	dataDir     string
	pfamVersion string
	timeout     time.Duration
}

var versionOpts versionFlags

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show pfam build information and the Pfam database version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionOpts.remote, "remote", false, "Also query the Pfam version published by the mirror")
	versionCmd.Flags().StringVar(&versionOpts.dataDir, "pfam-data-dir", "", "Pfam data directory (default ~/.pfam/data/Pfam)")
	versionCmd.Flags().StringVar(&versionOpts.pfamVersion, "pfam-version", "", "Release to query with --remote (default: current release)")
	versionCmd.Flags().DurationVar(&versionOpts.timeout, "timeout", 30*time.Second, "Timeout for the remote query")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version:    %s\n", version)
	fmt.Fprintf(out, "Commit:     %s\n", emptyAsNA(commit))
	fmt.Fprintf(out, "Build Date: %s\n", emptyAsNA(buildDate))
	fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

	dataDir, err := effectiveDataDir(versionOpts.dataDir)
	if err != nil {
		return err
	}
	if v, err := pfam.LoadVersion(pfam.Dir(dataDir)); err == nil {
		fmt.Fprintf(out, "Pfam:       %s\n", v)
	} else {
		fmt.Fprintf(out, "Pfam:       not installed in %s\n", dataDir)
	}

	if !versionOpts.remote {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), versionOpts.timeout)
	defer cancel()
	v, err := remoteVersion(ctx, remote.NewClient(&http.Client{}, report.Discard), cfg.Mirror, versionOpts.pfamVersion)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Remote:     %s\n", v)
	return nil
}

// remoteVersion reads the compressed version file of a release.
func remoteVersion(ctx context.Context, c *remote.Client, mirror, release string) (pfam.VersionInfo, error) {
	url := setup.ReleaseURL(mirror, release) + "/" + pfam.VersionFile + pfam.CompressedSuffix
	content, err := c.Fetch(ctx, url, true)
	if err != nil {
		return pfam.VersionInfo{}, fmt.Errorf("cannot fetch remote Pfam version: %w", err)
	}
	return pfam.ParseVersion(content)
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
