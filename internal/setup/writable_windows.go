//go:build windows

package setup

import (
	"os"
	"path/filepath"
)

// writable probes dir with a throwaway file; Windows ACLs are not reflected
// in mode bits.
func writable(dir string) error {
	probe := filepath.Join(dir, ".pfam-probe-tmp")
	if err := os.WriteFile(probe, []byte(""), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
