package pfam

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleClans = "PF00001\tCL0192\tGPCR_A\t7tm_1\t7 transmembrane receptor (rhodopsin family)\n" +
	"PF00002\tCL0192\tGPCR_A\t7tm_2\t7 transmembrane receptor (Secretin family)\n" +
	"PF00004\tCL0023\tP-loop_NTPase\tAAA\tATPase family associated with various cellular activities (AAA)\n" +
	"PF00005\t\t\tABC_tran\tABC transporter\n"

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader(sampleClans))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len = %d", c.Len())
	}
	e, ok := c.Lookup("PF00005")
	if !ok {
		t.Fatalf("PF00005 missing")
	}
	if e.Clan != "" || e.Name != "ABC_tran" || e.Function != "ABC transporter" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestParseCatalog_WrongColumnCount(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader("PF00001\tCL0192\t7tm_1\n"))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected column count error naming line 1, got %v", err)
	}
}

func TestResolve_VersionSuffixIgnored(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader(sampleClans))
	if err != nil {
		t.Fatal(err)
	}
	for _, acc := range []string{"PF00001", "PF00002", "PF00004"} {
		plain, err := c.Resolve(acc, false)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", acc, err)
		}
		for _, suffixed := range []string{acc + ".20", acc + ".1", acc + ".133"} {
			got, err := c.Resolve(suffixed, false)
			if err != nil {
				t.Fatalf("Resolve(%s): %v", suffixed, err)
			}
			if got != plain {
				t.Fatalf("Resolve(%s)=%q, Resolve(%s)=%q", suffixed, got, acc, plain)
			}
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader(sampleClans))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Resolve("PF99999.3", true)
	if err != nil {
		t.Fatalf("permissive Resolve: %v", err)
	}
	if !strings.Contains(got, "PF99999") {
		t.Fatalf("placeholder %q does not name the accession", got)
	}

	_, err = c.Resolve("PF99999", false)
	if !errors.Is(err, ErrUnknownAccession) {
		t.Fatalf("expected ErrUnknownAccession, got %v", err)
	}
	if !IsConfigError(err) {
		t.Fatalf("strict miss should be a ConfigError, got %T", err)
	}
}

func TestBaseAccession(t *testing.T) {
	cases := map[string]string{
		"PF00001.20": "PF00001",
		"PF00001":    "PF00001",
		"PF00001.":   "PF00001",
		"":           "",
	}
	for in, want := range cases {
		if got := BaseAccession(in); got != want {
			t.Fatalf("BaseAccession(%q)=%q want %q", in, got, want)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadCatalog(Dir(dir)); !IsConfigError(err) {
		t.Fatalf("missing catalog should be a ConfigError, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ClanFile), []byte(sampleClans), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalog(Dir(dir))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len = %d", c.Len())
	}
}
