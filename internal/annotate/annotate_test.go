package annotate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/pfam-cli/internal/contigs"
	"github.com/kamusis/pfam-cli/internal/hmmer"
	"github.com/kamusis/pfam-cli/internal/pfam"
	"github.com/kamusis/pfam-cli/internal/report"
)

const versionText = "Pfam release : 31.0\nPfam-A families : 16712\nDate : 2017-02\n"

const clanText = "PF00001\tCL0192\tGPCR_A\t7tm_1\t7 transmembrane receptor (rhodopsin family)\n" +
	"PF00002\tCL0192\tGPCR_A\t7tm_2\t7 transmembrane receptor (Secretin family)\n"

// refDir writes an indexed reference directory.
func refDir(t *testing.T) string {
	t.Helper()
	dir := pfam.Dir(t.TempDir())
	files := map[string]string{
		pfam.ProfileFile: "HMMER3/f\n//\n",
		pfam.VersionFile: versionText,
		pfam.ClanFile:    clanText,
	}
	for _, s := range pfam.IndexSuffixes {
		files[pfam.ProfileFile+s] = "idx"
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(dir.Path(name), []byte(content), 0o644))
	}
	return string(dir)
}

// fakeSearcher exports the sequences and writes table as the hits file.
type fakeSearcher struct {
	table   string
	program string
	err     error
	workDir string
}

func (s *fakeSearcher) Program() string { return s.program }

func (s *fakeSearcher) Run(ctx context.Context, exp hmmer.Exporter, _ string, workDir string) (hmmer.Result, error) {
	s.workDir = workDir
	if s.err != nil {
		return hmmer.Result{}, s.err
	}
	if err := exp.ExportAASequences(ctx, filepath.Join(workDir, hmmer.SequencesFile), true); err != nil {
		return hmmer.Result{}, err
	}
	if s.table == "" {
		return hmmer.Result{Outcome: hmmer.NoHits}, nil
	}
	path := filepath.Join(workDir, hmmer.TableFile)
	if err := os.WriteFile(path, []byte(s.table), 0o644); err != nil {
		return hmmer.Result{}, err
	}
	return hmmer.Result{Outcome: hmmer.Hits, HitsPath: path, NumHits: strings.Count(s.table, "\n")}, nil
}

type noIndexer struct{}

func (noIndexer) Index(context.Context, string) error { return errors.New("index should not be needed") }

// recordingStore wraps a store and counts bulk writes.
type recordingStore struct {
	Store
	batches []int
	empties [][]string
}

func (s *recordingStore) CreateFunctions(ctx context.Context, calls []pfam.FunctionCall) error {
	s.batches = append(s.batches, len(calls))
	return s.Store.CreateFunctions(ctx, calls)
}

func (s *recordingStore) AddEmptySources(ctx context.Context, sources ...string) error {
	s.empties = append(s.empties, sources)
	return s.Store.AddEmptySources(ctx, sources...)
}

func openDB(t *testing.T) *contigs.DB {
	t.Helper()
	db, err := contigs.Open(filepath.Join(t.TempDir(), "CONTIGS.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.ImportFASTA(context.Background(), strings.NewReader(">g0\nMKV\n>g1\nMST\n>g2\nMWW\n"))
	require.NoError(t, err)
	return db
}

func newIngestor(t *testing.T, db *contigs.DB, s *fakeSearcher, cfg Config) (*Ingestor, *recordingStore) {
	t.Helper()
	store := &recordingStore{Store: db}
	if cfg.DataDir == "" {
		cfg.DataDir = refDir(t)
	}
	if cfg.TmpBase == "" {
		cfg.TmpBase = t.TempDir()
	}
	in, err := New(cfg, Deps{Store: store, Dataset: db, Searcher: s, Indexer: noIndexer{}, Reporter: report.Discard})
	require.NoError(t, err)
	return in, store
}

func TestRun_StoresResolvedFunctions(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMSearch, table: "" +
		"# target name accession query name accession E-value score\n" +
		"1 - 7tm_1 PF00001.20 1.2e-30 105.1 0.3\n" +
		"2 - 7tm_2 PF00002.3 4e-8 30.0 0.1\n"}
	in, store := newIngestor(t, db, s, Config{AllowUnknown: true})

	sum, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hmmer.Hits, sum.Outcome)
	assert.Equal(t, 2, sum.NumFunctions)
	assert.Equal(t, "31.0", sum.Version.Version)
	assert.Equal(t, []int{2}, store.batches)
	assert.Empty(t, store.empties)

	got, err := db.Functions(context.Background(), pfam.Source)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].GeneCallerID)
	assert.Equal(t, "7 transmembrane receptor (rhodopsin family)", got[0].Function)
	assert.Equal(t, "PF00001.20", got[0].Accession)

	_, err = os.Stat(s.workDir)
	assert.True(t, os.IsNotExist(err), "work directory must be removed")
}

func TestRun_ZeroHitsRegistersEmptySource(t *testing.T) {
	db := openDB(t)
	in, store := newIngestor(t, db, &fakeSearcher{program: hmmer.HMMSearch}, Config{AllowUnknown: true})

	sum, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hmmer.NoHits, sum.Outcome)
	assert.Empty(t, store.batches, "no bulk write for zero hits")
	assert.Equal(t, [][]string{{pfam.Source}}, store.empties)

	rec, ok, err := db.Source(context.Background(), pfam.Source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Empty())
}

func TestRun_CommentOnlyTableFallsBackToEmptySource(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMSearch, table: "# only comments\n"}
	in, store := newIngestor(t, db, s, Config{AllowUnknown: true})

	_, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store.batches)
	assert.Len(t, store.empties, 1)
}

func TestRun_UnknownAccessionPermissive(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMSearch, table: "0 - Mystery PF99999.1 1e-10 40.0 0.0\n"}
	in, _ := newIngestor(t, db, s, Config{AllowUnknown: true})

	sum, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.NumUnknown)

	got, err := db.Functions(context.Background(), pfam.Source)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Function, "PF99999")
}

func TestRun_UnknownAccessionStrictWritesNothing(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMSearch, table: "" +
		"1 - 7tm_1 PF00001.20 1.2e-30 105.1 0.3\n" +
		"0 - Mystery PF99999.1 1e-10 40.0 0.0\n"}
	in, store := newIngestor(t, db, s, Config{AllowUnknown: false})

	_, err := in.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pfam.ErrUnknownAccession)
	assert.Empty(t, store.batches)
	assert.Empty(t, store.empties)

	sources, err := db.Sources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestRun_DebugKeepsWorkDir(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMScan, table: "7tm_1 PF00001.20 1 - 1.2e-30 105.1 0.3\n"}
	in, _ := newIngestor(t, db, s, Config{AllowUnknown: true, Debug: true})

	sum, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.workDir, sum.WorkDir)
	assert.FileExists(t, filepath.Join(sum.WorkDir, hmmer.TableFile))
	assert.FileExists(t, filepath.Join(sum.WorkDir, hmmer.SequencesFile))
}

func TestRun_SearchFailureCleansUp(t *testing.T) {
	db := openDB(t)
	s := &fakeSearcher{program: hmmer.HMMSearch, err: pfam.Configf("hmmsearch failed")}
	in, store := newIngestor(t, db, s, Config{AllowUnknown: true})

	_, err := in.Run(context.Background())
	assert.True(t, pfam.IsConfigError(err))
	assert.Empty(t, store.batches)
	assert.Empty(t, store.empties)
	_, statErr := os.Stat(s.workDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingReference(t *testing.T) {
	db := openDB(t)
	in, _ := newIngestor(t, db, &fakeSearcher{program: hmmer.HMMSearch}, Config{DataDir: t.TempDir()})

	_, err := in.Run(context.Background())
	require.Error(t, err)
	assert.True(t, pfam.IsConfigError(err))
	assert.Contains(t, err.Error(), "pfam setup")
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{DataDir: "x"}, Deps{})
	assert.Error(t, err)
	_, err = New(Config{}, Deps{})
	assert.Error(t, err)
}
