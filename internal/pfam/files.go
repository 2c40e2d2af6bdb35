// Package pfam describes the local Pfam reference directory and the data
// read from it: release metadata and the accession to function catalog.
package pfam

import (
	"os"
	"path/filepath"
	"strings"
)

// Names of the reference files, as published by the Pfam distribution.
const (
	ProfileFile  = "Pfam-A.hmm"
	VersionFile  = "Pfam.version"
	ClanFile     = "Pfam-A.clans.tsv"
	ChecksumFile = "md5_checksums"

	// CompressedSuffix marks the remote (and freshly downloaded) form of a file.
	CompressedSuffix = ".gz"
)

// IndexSuffixes are the artifacts written next to a profile by hmmpress.
var IndexSuffixes = []string{".h3m", ".h3i", ".h3f", ".h3p"}

// ReferenceFile is one member of the tracked reference file set.
type ReferenceFile struct {
	// Role is a short label: "primary-profiles", "version-metadata" or "accession-clan-map".
	Role string
	// Remote is the file name relative to the release base URL.
	Remote string
}

// Local returns the uncompressed name of f.
func (f ReferenceFile) Local() string {
	return strings.TrimSuffix(f.Remote, CompressedSuffix)
}

// Compressed reports whether the remote form of f is gzip-compressed.
func (f ReferenceFile) Compressed() bool {
	return strings.HasSuffix(f.Remote, CompressedSuffix)
}

// ReferenceFiles is the ordered, fixed file set fetched by setup.
var ReferenceFiles = []ReferenceFile{
	{Role: "primary-profiles", Remote: ProfileFile + CompressedSuffix},
	{Role: "version-metadata", Remote: VersionFile + CompressedSuffix},
	{Role: "accession-clan-map", Remote: ClanFile + CompressedSuffix},
}

// Dir is a local reference directory.
type Dir string

func (d Dir) Path(name string) string { return filepath.Join(string(d), name) }

func (d Dir) ProfilePath() string { return d.Path(ProfileFile) }

func (d Dir) CompressedProfilePath() string { return d.Path(ProfileFile + CompressedSuffix) }

// HasProfile reports whether the primary profile exists in either form.
func (d Dir) HasProfile() bool {
	return exists(d.ProfilePath()) || exists(d.CompressedProfilePath())
}

// Indexed reports whether every index artifact exists for the profile.
func (d Dir) Indexed() bool {
	for _, s := range IndexSuffixes {
		if !exists(d.ProfilePath() + s) {
			return false
		}
	}
	return true
}

// Ready reports whether all tracked files are present and uncompressed.
func (d Dir) Ready() bool {
	for _, f := range ReferenceFiles {
		if !exists(d.Path(f.Local())) {
			return false
		}
	}
	return true
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
