package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRun_SuccessWritesLog(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	logPath := filepath.Join(t.TempDir(), "run.log")

	if err := Run(context.Background(), logPath, "sh", "-c", "echo indexed"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "indexed") {
		t.Fatalf("log missing output: %q", string(b))
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	logPath := filepath.Join(t.TempDir(), "run.log")

	err := Run(context.Background(), logPath, "sh", "-c", "echo broken >&2; exit 3")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 3 || exitErr.LogPath != logPath {
		t.Fatalf("unexpected exit error: %+v", exitErr)
	}
	b, _ := os.ReadFile(logPath)
	if !strings.Contains(string(b), "broken") {
		t.Fatalf("stderr not captured: %q", string(b))
	}
}

func TestAvailable(t *testing.T) {
	if err := Available("pfam-no-such-binary-xyz"); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}
