package hmmer

import (
	"strings"
	"testing"
)

const searchTable = `#                                                               --- full sequence ---- --- best 1 domain ---- --- domain number estimation ----
# target name        accession  query name           accession    E-value  score  bias   E-value  score  bias   exp reg clu  ov env dom rep inc description of target
#------------------- ---------- -------------------- ---------- --------- ------ ----- --------- ------ -----   --- --- --- --- --- --- --- --- ---------------------
12                   -          7tm_1                PF00001.20   1.2e-30  105.1   0.3   1.5e-30  104.8   0.3   1.0   1   0   0   1   1   1   1 -
3                    -          Noascii              -            4.5e-05   22.0   0.0   5.1e-05   21.8   0.0   1.1   1   0   0   1   1   1   1 -
`

const scanTable = `# target name        accession  query name           accession    E-value  score  bias
7tm_1                PF00001.20 12                   -              1.2e-30  105.1   0.3   1.5e-30  104.8   0.3   1.0   1   0   0   1   1   1   1 7 transmembrane receptor
`

func TestParserFor_HMMSearch(t *testing.T) {
	p, err := ParserFor(HMMSearch, AminoAcid, Gene)
	if err != nil {
		t.Fatalf("ParserFor: %v", err)
	}
	hits, err := p.Parse(strings.NewReader(searchTable))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	want := Hit{GeneCallerID: 12, Accession: "PF00001.20", ModelName: "7tm_1", EValue: 1.2e-30, BitScore: 105.1}
	if hits[0] != want {
		t.Fatalf("hits[0] = %+v, want %+v", hits[0], want)
	}
	if hits[1].Accession != "Noascii" {
		t.Fatalf("missing accession should fall back to the model name, got %q", hits[1].Accession)
	}
}

func TestParserFor_HMMScan(t *testing.T) {
	p, err := ParserFor(HMMScan, AminoAcid, Gene)
	if err != nil {
		t.Fatalf("ParserFor: %v", err)
	}
	hits, err := p.Parse(strings.NewReader(scanTable))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(hits) != 1 || hits[0].GeneCallerID != 12 || hits[0].Accession != "PF00001.20" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestParserFor_Unknown(t *testing.T) {
	if _, err := ParserFor("nhmmer", "DNA", "CONTIG"); err == nil {
		t.Fatalf("expected error for unregistered parser")
	}
}

func TestParse_Errors(t *testing.T) {
	p, _ := ParserFor(HMMSearch, AminoAcid, Gene)
	tests := []struct {
		name  string
		input string
	}{
		{"short row", "12 - 7tm_1 PF00001\n"},
		{"non numeric gene", "gene_a - 7tm_1 PF00001 1e-5 20.0\n"},
		{"bad evalue", "12 - 7tm_1 PF00001 abc 20.0\n"},
		{"bad score", "12 - 7tm_1 PF00001 1e-5 xyz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Parse(strings.NewReader(tt.input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParse_CommentsOnly(t *testing.T) {
	p, _ := ParserFor(HMMSearch, AminoAcid, Gene)
	hits, err := p.Parse(strings.NewReader("# nothing\n\n# [ok]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %+v", hits)
	}
}
