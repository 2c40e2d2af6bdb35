package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// acquireSetupLock obtains the per-user setup lock, waiting up to timeout.
func acquireSetupLock(timeout time.Duration) (func(), error) {
	lockPath, err := setupLockPath()
	if err != nil {
		return func() {}, err
	}
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire setup lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another pfam setup is in progress (lock: %s)", lockPath)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// setupLockPath prefers the user cache directory and falls back to ~/.pfam.
func setupLockPath() (string, error) {
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		dir := filepath.Join(cacheDir, "pfam")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, "setup.lock"), nil
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dir := filepath.Join(home, ".pfam")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, "setup.lock"), nil
		}
	}
	return "", fmt.Errorf("cannot determine writable lock directory")
}
