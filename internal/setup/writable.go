package setup

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kamusis/pfam-cli/internal/pfam"
)

// checkWritable fails unless the nearest existing ancestor of dir is a
// writable directory.
func checkWritable(dir string) error {
	p := dir
	for {
		info, err := os.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return pfam.Configf("%s is not a directory", p)
			}
			if err := writable(p); err != nil {
				return pfam.WrapConfig(err, "the directory %s is not writable", p)
			}
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return pfam.Configf("no existing parent directory found for %s", dir)
		}
		p = parent
	}
}
