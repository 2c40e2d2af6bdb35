package contigs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kamusis/pfam-cli/internal/pfam"
)

// SourceRecord is one row of gene_function_sources.
type SourceRecord struct {
	Source       string
	RunID        string
	NumFunctions int
	AddedAt      time.Time
}

// Empty reports whether the source ran and found nothing.
func (s SourceRecord) Empty() bool { return s.NumFunctions == 0 }

// CreateFunctions replaces every function call of the calls' source with
// calls and registers the source with a fresh run id. calls must be
// non-empty and share one source.
func (d *DB) CreateFunctions(ctx context.Context, calls []pfam.FunctionCall) error {
	if len(calls) == 0 {
		return errors.New("no function calls to store")
	}
	source := calls[0].Source
	for _, c := range calls {
		if c.Source != source {
			return fmt.Errorf("mixed sources in one batch: %q and %q", source, c.Source)
		}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM gene_functions WHERE source = ?", source); err != nil {
		return fmt.Errorf("clearing %s functions: %w", source, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO gene_functions (gene_callers_id, source, accession, function, e_value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range calls {
		if _, err := stmt.ExecContext(ctx, c.GeneCallerID, c.Source, c.Accession, c.Function, c.EValue); err != nil {
			return fmt.Errorf("inserting function for gene %d: %w", c.GeneCallerID, err)
		}
	}
	if err := registerSource(ctx, tx, source, len(calls)); err != nil {
		return err
	}
	return tx.Commit()
}

// AddEmptySources registers each source as run with zero function calls and
// removes any calls left from an earlier run.
func (d *DB) AddEmptySources(ctx context.Context, sources ...string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range sources {
		if _, err := tx.ExecContext(ctx, "DELETE FROM gene_functions WHERE source = ?", s); err != nil {
			return fmt.Errorf("clearing %s functions: %w", s, err)
		}
		if err := registerSource(ctx, tx, s, 0); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func registerSource(ctx context.Context, tx *sql.Tx, source string, n int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO gene_function_sources (source, run_id, num_functions, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			run_id = excluded.run_id,
			num_functions = excluded.num_functions,
			added_at = excluded.added_at
	`, source, uuid.NewString(), n, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("registering source %s: %w", source, err)
	}
	return nil
}

// Sources returns every registered source ordered by name.
func (d *DB) Sources(ctx context.Context) ([]SourceRecord, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT source, run_id, num_functions, added_at FROM gene_function_sources ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var out []SourceRecord
	for rows.Next() {
		var (
			rec     SourceRecord
			addedAt string
		)
		if err := rows.Scan(&rec.Source, &rec.RunID, &rec.NumFunctions, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
			rec.AddedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Source returns the registration of source, or ok=false if it never ran.
func (d *DB) Source(ctx context.Context, source string) (SourceRecord, bool, error) {
	all, err := d.Sources(ctx)
	if err != nil {
		return SourceRecord{}, false, err
	}
	for _, s := range all {
		if s.Source == source {
			return s, true, nil
		}
	}
	return SourceRecord{}, false, nil
}

// Functions returns the stored calls of source ordered by gene then entry.
func (d *DB) Functions(ctx context.Context, source string) ([]pfam.FunctionCall, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT gene_callers_id, source, accession, function, e_value
		FROM gene_functions WHERE source = ?
		ORDER BY gene_callers_id, entry_id
	`, source)
	if err != nil {
		return nil, fmt.Errorf("querying functions: %w", err)
	}
	defer rows.Close()

	var out []pfam.FunctionCall
	for rows.Next() {
		var c pfam.FunctionCall
		if err := rows.Scan(&c.GeneCallerID, &c.Source, &c.Accession, &c.Function, &c.EValue); err != nil {
			return nil, fmt.Errorf("scanning function: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
