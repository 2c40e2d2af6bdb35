package pfam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// catalogColumns is the fixed schema of Pfam-A.clans.tsv.
const catalogColumns = 5

// Entry is one row of the accession to clan/function map.
type Entry struct {
	Accession string
	Clan      string
	ClanName  string
	Name      string
	Function  string
}

// Catalog maps base accessions (no version suffix) to entries. It is
// immutable once loaded.
type Catalog struct {
	entries map[string]Entry
}

// LoadCatalog parses the clan map in d.
func LoadCatalog(d Dir) (*Catalog, error) {
	path := d.Path(ClanFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapConfig(err, "cannot open Pfam catalog %s; run 'pfam setup' (with --reset if it was set up before)", path)
	}
	defer f.Close()
	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog reads TAB-delimited rows with five columns keyed by the first.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	c := &Catalog{entries: map[string]Entry{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != catalogColumns {
			return nil, fmt.Errorf("line %d: got %d columns, want %d", n, len(cols), catalogColumns)
		}
		e := Entry{
			Accession: strings.TrimSpace(cols[0]),
			Clan:      strings.TrimSpace(cols[1]),
			ClanName:  strings.TrimSpace(cols[2]),
			Name:      strings.TrimSpace(cols[3]),
			Function:  norm.NFC.String(strings.TrimSpace(cols[4])),
		}
		if e.Accession == "" {
			return nil, fmt.Errorf("line %d: empty accession", n)
		}
		c.entries[e.Accession] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Lookup returns the entry for accession, ignoring any version suffix.
func (c *Catalog) Lookup(accession string) (Entry, bool) {
	e, ok := c.entries[BaseAccession(accession)]
	return e, ok
}

// Resolve returns the function text for accession. On a miss it returns a
// placeholder naming the accession when allowUnknown is set, otherwise an
// error wrapping ErrUnknownAccession.
func (c *Catalog) Resolve(accession string, allowUnknown bool) (string, error) {
	base := BaseAccession(accession)
	if e, ok := c.entries[base]; ok {
		return e.Function, nil
	}
	if allowUnknown {
		return UnknownFunction(base), nil
	}
	return "", WrapConfig(ErrUnknownAccession, "the search reported accession %s which does not exist in the Pfam catalog", base)
}

// BaseAccession strips a trailing ".N" version suffix: PF00001.20 → PF00001.
func BaseAccession(accession string) string {
	base, _, _ := strings.Cut(accession, ".")
	return base
}

// UnknownFunction is the placeholder stored for accessions missing from the catalog.
func UnknownFunction(accession string) string {
	return "Unknown function with PFAM accession " + accession
}
