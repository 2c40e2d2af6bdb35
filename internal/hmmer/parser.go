package hmmer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sequence alphabets and search contexts understood by ParserFor.
const (
	AminoAcid = "AA"
	Gene      = "GENE"
)

// Hit is one reported match between a gene and a Pfam model.
type Hit struct {
	GeneCallerID int
	// Accession is the model accession, or the model name when the table
	// has no accession.
	Accession string
	ModelName string
	// EValue and BitScore are the full-sequence values.
	EValue   float64
	BitScore float64
}

// Parser reads a hits table.
type Parser interface {
	Parse(r io.Reader) ([]Hit, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(r io.Reader) ([]Hit, error)

func (f ParserFunc) Parse(r io.Reader) ([]Hit, error) { return f(r) }

type parserKey struct {
	program, alphabet, context string
}

// tblout columns: target name, target accession, query name, query
// accession, full E-value, full score, ...
var parsers = map[parserKey]Parser{
	{HMMScan, AminoAcid, Gene}:   tblout(2, 0, 1),
	{HMMSearch, AminoAcid, Gene}: tblout(0, 2, 3),
}

// ParserFor returns the table parser for a program family, alphabet and
// context.
func ParserFor(program, alphabet, context string) (Parser, error) {
	p, ok := parsers[parserKey{program, alphabet, context}]
	if !ok {
		return nil, fmt.Errorf("no hits parser for %s output (alphabet %s, context %s)", program, alphabet, context)
	}
	return p, nil
}

const tbloutMinColumns = 6

// tblout builds a parser for --tblout output with the gene id and model
// columns at the given positions.
func tblout(geneCol, nameCol, accCol int) Parser {
	return ParserFunc(func(r io.Reader) ([]Hit, error) {
		var hits []Hit
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		n := 0
		for scanner.Scan() {
			n++
			line := scanner.Text()
			if !isRow(line) {
				continue
			}
			cols := strings.Fields(line)
			if len(cols) < tbloutMinColumns {
				return nil, fmt.Errorf("hits table line %d: got %d columns, want at least %d", n, len(cols), tbloutMinColumns)
			}
			gene, err := strconv.Atoi(cols[geneCol])
			if err != nil {
				return nil, fmt.Errorf("hits table line %d: sequence id %q is not a gene caller id", n, cols[geneCol])
			}
			evalue, err := strconv.ParseFloat(cols[4], 64)
			if err != nil {
				return nil, fmt.Errorf("hits table line %d: bad E-value %q", n, cols[4])
			}
			score, err := strconv.ParseFloat(cols[5], 64)
			if err != nil {
				return nil, fmt.Errorf("hits table line %d: bad score %q", n, cols[5])
			}
			acc := cols[accCol]
			if acc == "-" {
				acc = cols[nameCol]
			}
			hits = append(hits, Hit{
				GeneCallerID: gene,
				Accession:    acc,
				ModelName:    cols[nameCol],
				EValue:       evalue,
				BitScore:     score,
			})
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("cannot read hits table: %w", err)
		}
		return hits, nil
	})
}
