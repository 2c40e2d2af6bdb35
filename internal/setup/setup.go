// Package setup materialises a local, verified and indexed copy of the Pfam
// reference files.
//
// A run walks a fixed sequence over the target directory: validate the
// request, refuse to clobber an existing installation, prepare the directory,
// download the tracked files, verify them against the remote checksum
// manifest, decompress them in place and index every profile. Each step can
// be re-run safely; Reset wipes the directory and starts over.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// Fetcher is the remote side of setup.
type Fetcher interface {
	Fetch(ctx context.Context, url string, compressed bool) (string, error)
	Download(ctx context.Context, url, dest string) (int64, error)
}

// Options configures a setup run.
type Options struct {
	// DataDir is a caller-chosen target directory. Empty selects DefaultDir.
	DataDir string
	// DefaultDir is the standard reference location.
	DefaultDir string
	// Mirror is the base URL of the Pfam distribution.
	Mirror string
	// Version selects releases/Pfam<Version>; empty selects current_release.
	Version string
	// Reset wipes the target directory before downloading.
	Reset bool
	// Debug skips the existing-installation check.
	Debug bool
}

// Manager runs setup against one directory.
type Manager struct {
	dir     pfam.Dir
	opts    Options
	fetcher Fetcher
	indexer Indexer
	rep     report.Reporter
}

// New validates opts. It never touches the filesystem, so an unsafe reset
// request fails before anything is deleted.
func New(opts Options, fetcher Fetcher, indexer Indexer, rep report.Reporter) (*Manager, error) {
	if opts.DataDir != "" && opts.Reset {
		return nil, pfam.Configf("You are attempting to run Pfam setup on a non-default data directory (%s) using the --reset flag. "+
			"To avoid deleting a directory that may be important to you, pfam refuses to reset directories given with "+
			"--pfam-data-dir. If you really want to regenerate it, remove it yourself (e.g. `rm -r %s`) and run setup again.",
			opts.DataDir, opts.DataDir)
	}
	dir := opts.DataDir
	if dir == "" {
		dir = opts.DefaultDir
	}
	if dir == "" {
		return nil, fmt.Errorf("no Pfam data directory configured")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", dir, err)
	}
	if rep == nil {
		rep = report.Discard
	}
	return &Manager{dir: pfam.Dir(abs), opts: opts, fetcher: fetcher, indexer: indexer, rep: rep}, nil
}

// Dir returns the resolved target directory.
func (m *Manager) Dir() pfam.Dir { return m.dir }

// ReleaseURL returns the base URL of a release under mirror. An empty version
// selects the current_release alias.
func ReleaseURL(mirror, version string) string {
	page := "current_release"
	if version != "" {
		page = "releases/Pfam" + version
	}
	return mirror + "/" + page
}

// Run performs the whole setup.
func (m *Manager) Run(ctx context.Context) error {
	m.rep.Section("Pfam setup")

	if err := checkWritable(filepath.Dir(string(m.dir))); err != nil {
		return err
	}
	if !m.opts.Reset && !m.opts.Debug {
		if err := m.checkNotInstalled(); err != nil {
			return err
		}
	}
	if err := m.prepareDir(); err != nil {
		return err
	}

	baseURL := ReleaseURL(m.opts.Mirror, m.opts.Version)
	m.rep.Info("", fmt.Sprintf("Database URL: %s", baseURL))

	if err := m.download(ctx, baseURL); err != nil {
		return err
	}
	if err := VerifyChecksums(ctx, m.fetcher, baseURL, m.dir, m.rep); err != nil {
		return err
	}
	if err := DecompressFiles(m.dir, m.rep); err != nil {
		return err
	}
	if err := IndexProfiles(ctx, m.dir, m.indexer, m.rep); err != nil {
		return err
	}
	m.rep.OK("", fmt.Sprintf("Pfam is ready in %s", m.dir))
	return nil
}

func (m *Manager) checkNotInstalled() error {
	if m.dir.HasProfile() {
		return pfam.Configf("It seems you already have the Pfam database installed in '%s', please use --reset if you want to re-download it.", m.dir)
	}
	return nil
}

func (m *Manager) prepareDir() error {
	if m.opts.Reset {
		if err := os.RemoveAll(string(m.dir)); err != nil {
			return fmt.Errorf("cannot remove %s: %w", m.dir, err)
		}
		m.rep.Info("", fmt.Sprintf("removed previous contents of %s", m.dir))
	}
	if err := os.MkdirAll(string(m.dir), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", m.dir, err)
	}
	return nil
}

// download fetches each tracked file that is not present in either form.
func (m *Manager) download(ctx context.Context, baseURL string) error {
	for _, f := range pfam.ReferenceFiles {
		dest := m.dir.Path(f.Remote)
		if fileExists(dest) || fileExists(m.dir.Path(f.Local())) {
			m.rep.Skip(f.Remote, "already present, not downloading again")
			continue
		}
		n, err := m.fetcher.Download(ctx, baseURL+"/"+f.Remote, dest)
		if err != nil {
			return fmt.Errorf("cannot download %s: %w", f.Remote, err)
		}
		m.rep.OK(f.Remote, fmt.Sprintf("downloaded %s", report.HumanBytes(n)))
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
