// Package report is the console reporting capability handed to every
// component. It replaces process-wide print helpers so that components can be
// exercised in tests with in-memory writers.
//
// Icon semantics:
//
//	✓  success / healthy
//	✗  error / failure          (written to the error writer)
//	⚠  warning
//	○  skipped / not applicable
//	~  neutral info / state change
package report

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Reporter receives human-readable progress from long-running steps.
type Reporter interface {
	Section(title string)
	OK(name, msg string)
	Info(name, msg string)
	Warn(name, msg string)
	Skip(name, msg string)
	Error(name, msg string)
	// Progress renders byte-based progress for label; total may be <= 0 when unknown.
	Progress(label string, done, total int64)
	// ProgressDone terminates a progress line started by Progress.
	ProgressDone()
}

// Console writes reports to Out, and errors plus progress to Err.
type Console struct {
	Out io.Writer
	Err io.Writer

	mu        sync.Mutex
	lastPrint time.Time
	inLine    bool
}

// NewConsole returns a Console writing to out and errOut.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{Out: out, Err: errOut}
}

// Section prints a top-level section header, e.g. "=== Setup ===".
func (c *Console) Section(title string) {
	fmt.Fprintf(c.Out, "\n=== %s ===\n", title)
}

// OK prints a success line.
//
//	name = "" → "  ✓  msg"
//	name set  → "  ✓  [name] msg"
func (c *Console) OK(name, msg string) { c.line(c.Out, "✓", name, msg) }

func (c *Console) Info(name, msg string) { c.line(c.Out, "~", name, msg) }

func (c *Console) Warn(name, msg string) { c.line(c.Out, "⚠", name, msg) }

func (c *Console) Skip(name, msg string) { c.line(c.Out, "○", name, msg) }

// Error prints an error line to the error writer.
func (c *Console) Error(name, msg string) { c.line(c.Err, "✗", name, msg) }

func (c *Console) line(w io.Writer, icon, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  %s  %s\n", icon, msg)
		return
	}
	fmt.Fprintf(w, "  %s  [%s] %s\n", icon, name, msg)
}

// Progress renders a single rewritten line, throttled to one update per 200ms.
// The final call of a transfer (done == total) is always printed.
func (c *Console) Progress(label string, done, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	finished := total > 0 && done >= total
	if !finished && c.inLine && time.Since(c.lastPrint) < 200*time.Millisecond {
		return
	}
	c.lastPrint = time.Now()
	c.inLine = true
	if total > 0 {
		pct := float64(done) / float64(total) * 100
		fmt.Fprintf(c.Err, "\r%s... %s / %s (%.1f%%)", label, HumanBytes(done), HumanBytes(total), pct)
		return
	}
	fmt.Fprintf(c.Err, "\r%s... %s", label, HumanBytes(done))
}

func (c *Console) ProgressDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inLine {
		fmt.Fprintln(c.Err)
		c.inLine = false
	}
}

// HumanBytes formats a byte count in a human-friendly binary unit.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	prefix := "KMGTPE"[exp]
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), prefix)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Section(string)               {}
func (discard) OK(string, string)            {}
func (discard) Info(string, string)          {}
func (discard) Warn(string, string)          {}
func (discard) Skip(string, string)          {}
func (discard) Error(string, string)         {}
func (discard) Progress(string, int64, int64) {}
func (discard) ProgressDone()                {}
