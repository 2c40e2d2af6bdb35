package pfam

import (
	"os"
	"testing"
)

func TestReferenceFiles(t *testing.T) {
	if len(ReferenceFiles) != 3 {
		t.Fatalf("expected three tracked files, got %d", len(ReferenceFiles))
	}
	for _, f := range ReferenceFiles {
		if !f.Compressed() {
			t.Fatalf("%s: expected compressed remote form", f.Remote)
		}
	}
	if ReferenceFiles[0].Local() != ProfileFile {
		t.Fatalf("first file should be the profile, got %s", ReferenceFiles[0].Local())
	}
}

func TestDir_State(t *testing.T) {
	d := Dir(t.TempDir())
	if d.HasProfile() || d.Ready() || d.Indexed() {
		t.Fatalf("empty dir reported as populated")
	}

	touch(t, d.CompressedProfilePath())
	if !d.HasProfile() {
		t.Fatalf("compressed profile not detected")
	}
	if d.Ready() {
		t.Fatalf("compressed-only dir reported ready")
	}

	for _, f := range ReferenceFiles {
		touch(t, d.Path(f.Local()))
	}
	if !d.Ready() {
		t.Fatalf("dir with all files not ready")
	}
	for _, s := range IndexSuffixes {
		touch(t, d.ProfilePath()+s)
	}
	if !d.Indexed() {
		t.Fatalf("index artifacts not detected")
	}
}

func touch(t *testing.T, p string) {
	t.Helper()
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}
