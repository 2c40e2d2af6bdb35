package contigs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Gene is one amino-acid sequence in the database.
type Gene struct {
	CallerID int
	Defline  string
	Sequence string
}

// ImportFASTA loads amino-acid records from r, assigning gene caller ids in
// file order after the highest existing id. It returns the number imported.
func (d *DB) ImportFASTA(ctx context.Context, r io.Reader) (int, error) {
	records, err := readFASTA(r)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("no FASTA records found")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(gene_callers_id) + 1, 0) FROM gene_amino_acid_sequences").Scan(&next); err != nil {
		return 0, fmt.Errorf("reading next gene id: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO gene_amino_acid_sequences (gene_callers_id, defline, sequence) VALUES (?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, next+i, rec.Defline, rec.Sequence); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", rec.Defline, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sequences: %w", err)
	}
	return len(records), nil
}

// Genes returns every gene ordered by caller id.
func (d *DB) Genes(ctx context.Context) ([]Gene, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT gene_callers_id, defline, sequence FROM gene_amino_acid_sequences ORDER BY gene_callers_id")
	if err != nil {
		return nil, fmt.Errorf("querying genes: %w", err)
	}
	defer rows.Close()

	var genes []Gene //nolint:prealloc // size unknown from query
	for rows.Next() {
		var g Gene
		if err := rows.Scan(&g.CallerID, &g.Defline, &g.Sequence); err != nil {
			return nil, fmt.Errorf("scanning gene: %w", err)
		}
		genes = append(genes, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating genes: %w", err)
	}
	return genes, nil
}

// ExportAASequences writes every gene to path as FASTA. With simpleHeaders
// the defline is the bare gene caller id, which is what search output is
// parsed against.
func (d *DB) ExportAASequences(ctx context.Context, path string, simpleHeaders bool) error {
	genes, err := d.Genes(ctx)
	if err != nil {
		return err
	}
	if len(genes) == 0 {
		return fmt.Errorf("contigs database %s has no amino-acid sequences to export", d.path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	for _, g := range genes {
		header := strconv.Itoa(g.CallerID)
		if !simpleHeaders && g.Defline != "" {
			header = g.Defline
		}
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", header, g.Sequence); err != nil {
			f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type fastaRecord struct {
	Defline  string
	Sequence string
}

// readFASTA parses multi-line FASTA. Sequences are upper-cased and a
// trailing stop '*' is dropped.
func readFASTA(r io.Reader) ([]fastaRecord, error) {
	var (
		out []fastaRecord
		cur *fastaRecord
		seq bytes.Buffer
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		s := strings.TrimSuffix(strings.ToUpper(seq.String()), "*")
		if s == "" {
			return fmt.Errorf("record %q has an empty sequence", cur.Defline)
		}
		cur.Sequence = s
		out = append(out, *cur)
		seq.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &fastaRecord{Defline: strings.TrimSpace(line[1:])}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("sequence data before the first FASTA header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read FASTA: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
