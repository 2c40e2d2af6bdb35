// Package hmmer runs HMMER profile searches of gene amino-acid sequences
// against a Pfam profile set and parses the per-sequence hit tables.
package hmmer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kamusis/pfam-cli/internal/command"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

// Programs this package knows how to drive and parse.
const (
	HMMScan   = "hmmscan"
	HMMSearch = "hmmsearch"
)

// Work file names created under the caller's work directory.
const (
	SequencesFile = "AA_gene_sequences.fa"
	TableFile     = "hmm.table"
	OutputFile    = "hmm.output"
	LogFile       = "00_log.txt"
)

// DefaultGate keeps hits above each model's curated gathering threshold.
const DefaultGate = "--cut_ga"

// Exporter writes the amino-acid sequence of every gene to a FASTA file.
// With simpleHeaders the defline is the gene caller id.
type Exporter interface {
	ExportAASequences(ctx context.Context, path string, simpleHeaders bool) error
}

// Config selects the search program and how it is invoked.
type Config struct {
	// Program is hmmscan or hmmsearch, optionally as a path.
	Program string
	// NumThreads is passed through as --cpu.
	NumThreads int
	// Gate is the score threshold flag; empty selects DefaultGate.
	Gate string
}

// Outcome tags a search result.
type Outcome int

const (
	// NoHits is a completed search that reported nothing.
	NoHits Outcome = iota
	// Hits is a completed search with at least one table row.
	Hits
)

func (o Outcome) String() string {
	if o == Hits {
		return "hits"
	}
	return "no hits"
}

// Result is a completed search. HitsPath is set only for Hits.
type Result struct {
	Outcome  Outcome
	HitsPath string
	NumHits  int
}

// Runner runs one HMMER program.
type Runner struct {
	cfg    Config
	family string
	rep    report.Reporter
}

// NewRunner validates cfg.
func NewRunner(cfg Config, rep report.Reporter) (*Runner, error) {
	if cfg.Program == "" {
		cfg.Program = HMMSearch
	}
	family := strings.TrimSuffix(filepath.Base(cfg.Program), ".exe")
	if family != HMMScan && family != HMMSearch {
		return nil, pfam.Configf("unsupported HMMER program %q: use %s or %s", cfg.Program, HMMSearch, HMMScan)
	}
	if cfg.NumThreads < 1 {
		return nil, pfam.Configf("number of threads must be at least 1, got %d", cfg.NumThreads)
	}
	if cfg.Gate == "" {
		cfg.Gate = DefaultGate
	}
	if rep == nil {
		rep = report.Discard
	}
	return &Runner{cfg: cfg, family: family, rep: rep}, nil
}

// Program returns the program family, hmmscan or hmmsearch.
func (r *Runner) Program() string { return r.family }

// Run exports the sequences from exp into workDir and searches them against
// profilePath. Every file it creates lives in workDir; the caller removes it.
func (r *Runner) Run(ctx context.Context, exp Exporter, profilePath, workDir string) (Result, error) {
	seqs := filepath.Join(workDir, SequencesFile)
	if err := exp.ExportAASequences(ctx, seqs, true); err != nil {
		return Result{}, fmt.Errorf("cannot export amino-acid sequences: %w", err)
	}
	r.rep.OK("", fmt.Sprintf("amino-acid sequences exported to %s", seqs))

	table := filepath.Join(workDir, TableFile)
	logPath := filepath.Join(workDir, LogFile)
	args := []string{
		"-o", filepath.Join(workDir, OutputFile),
		"--tblout", table,
		r.cfg.Gate,
		"--cpu", strconv.Itoa(r.cfg.NumThreads),
		profilePath,
		seqs,
	}
	r.rep.Info(r.family, fmt.Sprintf("searching with %d thread(s)", r.cfg.NumThreads))
	if err := command.Run(ctx, logPath, r.cfg.Program, args...); err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, pfam.WrapConfig(err, "%s failed; check out the log file ('%s') to see what went wrong", r.family, logPath)
		}
		return Result{}, err
	}

	n, err := countRows(table)
	if err != nil {
		return Result{}, err
	}
	if n == 0 {
		r.rep.Info(r.family, "no hits")
		return Result{Outcome: NoHits}, nil
	}
	r.rep.OK(r.family, fmt.Sprintf("%d raw hits", n))
	return Result{Outcome: Hits, HitsPath: table, NumHits: n}, nil
}

// countRows counts non-comment lines of a tblout file. A missing table counts
// as empty.
func countRows(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if isRow(scanner.Text()) {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return n, nil
}

func isRow(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.HasPrefix(line, "#")
}
