package pfam

import (
	"strings"
	"testing"
)

func TestCatalogSearch(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader("" +
		"PF00002\tCL0192\tGPCR_A\t7tm_2\t7 transmembrane receptor (Secretin family)\n" +
		"PF00001\tCL0192\tGPCR_A\t7tm_1\t7 transmembrane receptor (rhodopsin family)\n" +
		"PF00005\t\t\tABC_tran\tABC transporter\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"transmembrane", 0, []string{"PF00001", "PF00002"}},
		{"Transmembrane RHODOPSIN", 0, []string{"PF00001"}},
		{"cl0192", 1, []string{"PF00001"}},
		{"abc_tran", 0, []string{"PF00005"}},
		{"kinase", 0, nil},
		{"   ", 0, nil},
	}
	for _, tt := range tests {
		got := c.Search(tt.query, tt.limit)
		if len(got) != len(tt.want) {
			t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
		for i := range got {
			if got[i].Accession != tt.want[i] {
				t.Fatalf("Search(%q)[%d] = %s, want %s", tt.query, i, got[i].Accession, tt.want[i])
			}
		}
	}
}
