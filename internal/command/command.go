// Package command runs external programs with their combined output
// captured to a log file.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExitError reports a program that ran but exited non-zero.
type ExitError struct {
	Name    string
	Code    int
	LogPath string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d (log: %s)", e.Name, e.Code, e.LogPath)
}

// Run executes name with args, writing stdout and stderr to logPath. The log
// is left in place in every case; callers decide whether to remove it.
func Run(ctx context.Context, logPath, name string, args ...string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("cannot create log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	fmt.Fprintf(logFile, "# %s %s\n", name, strings.Join(args, " "))

	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = logFile
	c.Stderr = logFile
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Name: name, Code: exitErr.ExitCode(), LogPath: logPath}
		}
		return fmt.Errorf("cannot run %s: %w", name, err)
	}
	return nil
}

// Available returns a clear error if name is not found on PATH.
func Available(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s is not installed or not on PATH", name)
	}
	return nil
}
