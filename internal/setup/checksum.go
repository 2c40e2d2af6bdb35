package setup

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// ParseManifest parses an md5 manifest into file name → lowercase hex digest.
//
// Each line holds whitespace-separated fields where the first is the digest
// and the last the file name:
//
//	<md5> <filename>
func ParseManifest(r io.Reader) (map[string]string, error) {
	out := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		h := fields[0]
		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		if _, err := hex.DecodeString(h); err != nil {
			return nil, fmt.Errorf("invalid checksum hex for %s", name)
		}
		out[name] = strings.ToLower(h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("checksum parse failed: %w", err)
	}
	return out, nil
}

// FileMD5 returns the md5 checksum of a file as lowercase hex.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksums checks every tracked file against the remote manifest.
// A manifest that cannot be fetched only produces a warning; a missing file
// or a wrong digest is fatal.
func VerifyChecksums(ctx context.Context, fetcher Fetcher, baseURL string, dir pfam.Dir, rep report.Reporter) error {
	manifestURL := baseURL + "/" + pfam.ChecksumFile
	text, err := fetcher.Fetch(ctx, manifestURL, false)
	if err != nil {
		rep.Warn("", fmt.Sprintf("Checksum file '%s' is not available, downloaded files cannot be verified (%v)", manifestURL, err))
		return nil
	}
	sums, err := ParseManifest(strings.NewReader(text))
	if err != nil {
		return pfam.WrapConfig(err, "the checksum manifest at %s is malformed", manifestURL)
	}

	for _, f := range pfam.ReferenceFiles {
		path := dir.Path(f.Remote)
		if !fileExists(path) {
			if fileExists(dir.Path(f.Local())) {
				rep.Skip(f.Remote, "already decompressed, not re-verified")
				continue
			}
			return pfam.Configf("The file %s is missing from %s. Please run setup again with --reset.", f.Remote, dir)
		}
		expected, ok := sums[f.Remote]
		if !ok {
			return pfam.Configf("The checksum manifest at %s has no entry for %s. Please run setup again with --reset.", manifestURL, f.Remote)
		}
		actual, err := FileMD5(path)
		if err != nil {
			return fmt.Errorf("cannot hash %s: %w", path, err)
		}
		if !strings.EqualFold(expected, actual) {
			return pfam.Configf("Checksum mismatch for %s (expected %s, got %s). Please run setup again with --reset.", f.Remote, expected, actual)
		}
		rep.OK(f.Remote, "checksum verified")
	}
	return nil
}
