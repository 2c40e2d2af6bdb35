package setup

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// DecompressFiles gunzips every compressed tracked file in place and removes
// the compressed form. A file already decompressed is skipped.
func DecompressFiles(dir pfam.Dir, rep report.Reporter) error {
	for _, f := range pfam.ReferenceFiles {
		if !f.Compressed() {
			continue
		}
		if err := decompressOne(dir.Path(f.Remote), rep); err != nil {
			return err
		}
	}
	return nil
}

func decompressOne(gzPath string, rep report.Reporter) error {
	plain := strings.TrimSuffix(gzPath, pfam.CompressedSuffix)
	if !fileExists(gzPath) {
		if fileExists(plain) {
			rep.Skip(plain, "already decompressed")
			return nil
		}
		return pfam.Configf("The file at %s does not exist. Please run setup again with --reset.", gzPath)
	}
	if err := gunzipFile(gzPath, plain); err != nil {
		return err
	}
	if err := os.Remove(gzPath); err != nil {
		return fmt.Errorf("cannot remove %s: %w", gzPath, err)
	}
	rep.OK(plain, "decompressed")
	return nil
}

// gunzipFile writes the decompressed content of src to dst through a
// temporary file, so dst only ever appears complete.
func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	gzr, err := gzip.NewReader(in)
	if err != nil {
		return pfam.WrapConfig(err, "%s is not a valid gzip file. Please run setup again with --reset", src)
	}
	defer gzr.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, gzr); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot decompress %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("cannot move %s into place: %w", dst, err)
	}
	return nil
}
