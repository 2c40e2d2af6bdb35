package remote

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func gz(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newServer(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Compressed(t *testing.T) {
	content := "Pfam release : 31.0\nPfam-A families : 16712\nDate : 2017-02\n"
	srv := newServer(t, map[string][]byte{"/Pfam.version.gz": gz(t, content)})

	got, err := NewClient(srv.Client(), nil).Fetch(context.Background(), srv.URL+"/Pfam.version.gz", true)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != content {
		t.Fatalf("Fetch = %q", got)
	}
}

func TestFetch_Plain(t *testing.T) {
	srv := newServer(t, map[string][]byte{"/md5_checksums": []byte("abc  Pfam-A.hmm.gz\n")})

	got, err := NewClient(srv.Client(), nil).Fetch(context.Background(), srv.URL+"/md5_checksums", false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != "abc  Pfam-A.hmm.gz\n" {
		t.Fatalf("Fetch = %q", got)
	}
}

func TestFetch_NotFound(t *testing.T) {
	srv := newServer(t, nil)

	_, err := NewClient(srv.Client(), nil).Fetch(context.Background(), srv.URL+"/missing", false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), nil).Fetch(context.Background(), srv.URL+"/x", false)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected non-404 error, got %v", err)
	}
}

func TestDownload_WritesDestAndNoPartFile(t *testing.T) {
	payload := gz(t, "HMMER3/f\n//\n")
	srv := newServer(t, map[string][]byte{"/Pfam-A.hmm.gz": payload})
	dest := filepath.Join(t.TempDir(), "Pfam-A.hmm.gz")

	n, err := NewClient(srv.Client(), nil).Download(context.Background(), srv.URL+"/Pfam-A.hmm.gz", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("downloaded %d bytes, want %d", n, len(payload))
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, payload) {
		t.Fatalf("content mismatch")
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Fatalf("part file left behind")
	}
}

func TestDownload_NotFoundCreatesNothing(t *testing.T) {
	srv := newServer(t, nil)
	dest := filepath.Join(t.TempDir(), "Pfam-A.hmm.gz")

	_, err := NewClient(srv.Client(), nil).Download(context.Background(), srv.URL+"/Pfam-A.hmm.gz", dest)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("dest should not exist")
	}
}
