// Package annotate searches a contigs database against the local Pfam
// profiles and stores the resulting gene function calls.
package annotate

import (
	"context"
	"fmt"
	"os"

	"github.com/kamusis/pfam-cli/internal/hmmer"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
	"github.com/kamusis/pfam-cli/internal/setup"
)

// Store receives annotation results.
type Store interface {
	CreateFunctions(ctx context.Context, calls []pfam.FunctionCall) error
	AddEmptySources(ctx context.Context, sources ...string) error
}

// Searcher runs a profile search and names the program it ran.
type Searcher interface {
	Run(ctx context.Context, exp hmmer.Exporter, profilePath, workDir string) (hmmer.Result, error)
	Program() string
}

// Config holds the few values an annotation run needs.
type Config struct {
	// DataDir is the Pfam reference directory.
	DataDir string
	// AllowUnknown stores a placeholder function for accessions missing
	// from the catalog instead of failing.
	AllowUnknown bool
	// Debug keeps the work directory and reports its files.
	Debug bool
	// TmpBase is the parent of the work directory; empty uses os.TempDir.
	TmpBase string
}

// Deps are the collaborators of an Ingestor.
type Deps struct {
	Store    Store
	Dataset  hmmer.Exporter
	Searcher Searcher
	Indexer  setup.Indexer
	Reporter report.Reporter
}

// Summary describes a finished run.
type Summary struct {
	Version      pfam.VersionInfo
	Outcome      hmmer.Outcome
	NumHits      int
	NumFunctions int
	NumUnknown   int
	// WorkDir is set only when the work directory was kept.
	WorkDir string
}

// Ingestor annotates one contigs database.
type Ingestor struct {
	cfg  Config
	deps Deps
	dir  pfam.Dir
}

// New checks that every collaborator is present.
func New(cfg Config, deps Deps) (*Ingestor, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("no Pfam data directory configured")
	}
	if deps.Store == nil || deps.Dataset == nil || deps.Searcher == nil || deps.Indexer == nil {
		return nil, fmt.Errorf("annotate: store, dataset, searcher and indexer are required")
	}
	if deps.Reporter == nil {
		deps.Reporter = report.Discard
	}
	return &Ingestor{cfg: cfg, deps: deps, dir: pfam.Dir(cfg.DataDir)}, nil
}

// Run searches, resolves every hit through the catalog and writes the
// function calls. A search with no hits registers the source as empty.
func (in *Ingestor) Run(ctx context.Context) (sum Summary, err error) {
	rep := in.deps.Reporter
	rep.Section("Pfam annotation")

	if err := setup.EnsureReference(ctx, in.dir, in.deps.Indexer, rep); err != nil {
		return sum, err
	}
	sum.Version, err = pfam.LoadVersion(in.dir)
	if err != nil {
		return sum, err
	}
	rep.Info("", fmt.Sprintf("Pfam database version: %s", sum.Version))

	catalog, err := pfam.LoadCatalog(in.dir)
	if err != nil {
		return sum, err
	}

	workDir, err := os.MkdirTemp(in.cfg.TmpBase, "pfam-")
	if err != nil {
		return sum, fmt.Errorf("cannot create work directory: %w", err)
	}
	defer func() {
		if in.cfg.Debug {
			sum.WorkDir = workDir
			rep.Warn("debug", fmt.Sprintf("work directory kept: %s", workDir))
			return
		}
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			rep.Warn("", fmt.Sprintf("cannot remove work directory %s: %v", workDir, rmErr))
		}
	}()

	res, err := in.deps.Searcher.Run(ctx, in.deps.Dataset, in.dir.ProfilePath(), workDir)
	if err != nil {
		return sum, err
	}
	sum.Outcome = res.Outcome
	sum.NumHits = res.NumHits
	if res.Outcome == hmmer.NoHits {
		return sum, in.markEmpty(ctx)
	}
	if in.cfg.Debug {
		rep.Info("debug", fmt.Sprintf("hits table: %s", res.HitsPath))
	}

	calls, unknown, err := in.functionCalls(catalog, res.HitsPath)
	if err != nil {
		return sum, err
	}
	sum.NumUnknown = unknown
	if unknown > 0 {
		rep.Warn("", fmt.Sprintf("%d hit(s) reported accessions missing from the Pfam catalog", unknown))
	}
	if len(calls) == 0 {
		return sum, in.markEmpty(ctx)
	}
	if err := in.deps.Store.CreateFunctions(ctx, calls); err != nil {
		return sum, fmt.Errorf("cannot store functions: %w", err)
	}
	sum.NumFunctions = len(calls)
	rep.OK("", fmt.Sprintf("%d Pfam function calls stored", len(calls)))
	return sum, nil
}

func (in *Ingestor) markEmpty(ctx context.Context) error {
	if err := in.deps.Store.AddEmptySources(ctx, pfam.Source); err != nil {
		return fmt.Errorf("cannot register empty source: %w", err)
	}
	in.deps.Reporter.Info("", "no Pfam hits; source registered with zero functions")
	return nil
}

// functionCalls parses the hits table and resolves every accession. In
// strict mode the first unknown accession aborts before anything is stored.
func (in *Ingestor) functionCalls(catalog *pfam.Catalog, hitsPath string) ([]pfam.FunctionCall, int, error) {
	parser, err := hmmer.ParserFor(in.deps.Searcher.Program(), hmmer.AminoAcid, hmmer.Gene)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(hitsPath)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open hits table: %w", err)
	}
	defer f.Close()
	hits, err := parser.Parse(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", hitsPath, err)
	}

	calls := make([]pfam.FunctionCall, 0, len(hits))
	unknown := 0
	for _, h := range hits {
		if _, ok := catalog.Lookup(h.Accession); !ok {
			unknown++
		}
		function, err := catalog.Resolve(h.Accession, in.cfg.AllowUnknown)
		if err != nil {
			return nil, 0, err
		}
		calls = append(calls, pfam.FunctionCall{
			Source:       pfam.Source,
			GeneCallerID: h.GeneCallerID,
			Accession:    h.Accession,
			Function:     function,
			EValue:       h.EValue,
		})
	}
	return calls, unknown, nil
}
