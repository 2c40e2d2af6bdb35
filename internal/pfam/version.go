package pfam

import (
	"fmt"
	"os"
	"strings"
)

// VersionInfo is the release metadata declared in Pfam.version.
type VersionInfo struct {
	Version     string
	ReleaseDate string
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (%s)", v.Version, v.ReleaseDate)
}

// ParseVersion reads the release metadata blob:
//
//	Pfam release       : 31.0
//	Pfam-A families    : 16712
//	Date               : 2017-02
//	Based on UniProtKB : 2016_10
//
// The parse is positional: the version is the value of line 1 and the
// release date the value of line 3. Labels are not checked, so a reordered
// upstream file yields wrong values rather than an error.
func ParseVersion(content string) (VersionInfo, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 3 {
		return VersionInfo{}, fmt.Errorf("version metadata has %d line(s), want at least 3", len(lines))
	}
	version, err := lineValue(lines, 0)
	if err != nil {
		return VersionInfo{}, err
	}
	date, err := lineValue(lines, 2)
	if err != nil {
		return VersionInfo{}, err
	}
	return VersionInfo{Version: version, ReleaseDate: date}, nil
}

func lineValue(lines []string, i int) (string, error) {
	_, v, ok := strings.Cut(lines[i], ":")
	if !ok {
		return "", fmt.Errorf("version metadata line %d has no ':' separator: %q", i+1, strings.TrimSpace(lines[i]))
	}
	return strings.TrimSpace(v), nil
}

// LoadVersion reads and parses the version file in d.
func LoadVersion(d Dir) (VersionInfo, error) {
	path := d.Path(VersionFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return VersionInfo{}, WrapConfig(err, "cannot read Pfam version file %s; run 'pfam setup' (with --reset if it was set up before)", path)
	}
	v, err := ParseVersion(string(b))
	if err != nil {
		return VersionInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
