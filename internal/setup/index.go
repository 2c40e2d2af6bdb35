package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/pfam-cli/internal/command"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// IndexLogName is the log kept next to a profile when indexing fails.
const IndexLogName = "00_hmmpress_log.txt"

// Indexer builds the search index for one profile file.
type Indexer interface {
	Index(ctx context.Context, profilePath string) error
}

// HMMPress indexes profiles with the hmmpress binary.
type HMMPress struct {
	Binary string
}

// Index runs `hmmpress <profile>`. The log is deleted on success and kept on
// failure.
func (h HMMPress) Index(ctx context.Context, profilePath string) error {
	bin := h.Binary
	if bin == "" {
		bin = "hmmpress"
	}
	logPath := filepath.Join(filepath.Dir(profilePath), IndexLogName)
	if err := command.Run(ctx, logPath, bin, profilePath); err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return pfam.WrapConfig(err, "There was an error while running `%s` on %s. Check out the log file ('%s') to see what went wrong", bin, profilePath, logPath)
		}
		return err
	}
	if err := os.Remove(logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot remove %s: %w", logPath, err)
	}
	return nil
}

// IndexProfiles indexes every *.hmm file in dir, removing stale index
// artifacts beforehand.
func IndexProfiles(ctx context.Context, dir pfam.Dir, indexer Indexer, rep report.Reporter) error {
	profiles, err := filepath.Glob(dir.Path("*.hmm"))
	if err != nil {
		return err
	}
	for _, p := range profiles {
		for _, s := range pfam.IndexSuffixes {
			if err := os.Remove(p + s); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("cannot remove stale index %s: %w", p+s, err)
			}
		}
		if err := indexer.Index(ctx, p); err != nil {
			return err
		}
		rep.OK(filepath.Base(p), "indexed")
	}
	return nil
}
