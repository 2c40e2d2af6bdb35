package setup

import (
	"context"

	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// EnsureReference makes dir usable for a search. A profile left compressed
// by an earlier setup is decompressed and indexed now.
func EnsureReference(ctx context.Context, dir pfam.Dir, indexer Indexer, rep report.Reporter) error {
	if !dir.HasProfile() {
		return pfam.Configf("It seems you do not have the Pfam database installed in %s, please run 'pfam setup' to download it.", dir)
	}
	if fileExists(dir.CompressedProfilePath()) {
		rep.Warn("", "Your Pfam database is currently compressed. It will now be unpacked before running the search.")
		if err := decompressOne(dir.CompressedProfilePath(), rep); err != nil {
			return err
		}
	} else if dir.Indexed() {
		return nil
	}
	return IndexProfiles(ctx, dir, indexer, rep)
}
