package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMirror is the public EBI distribution of Pfam releases.
const DefaultMirror = "http://ftp.ebi.ac.uk/pub/databases/Pfam"

// Config is the in-memory representation of ~/.pfam/pfam.yaml.
type Config struct {
	Mirror       string `yaml:"mirror,omitempty"`
	HMMERProgram string `yaml:"hmmer_program,omitempty"`
	HMMPress     string `yaml:"hmmpress,omitempty"`
	NumThreads   int    `yaml:"num_threads,omitempty"`
}

// PfamDir returns the absolute path to ~/.pfam/.
func PfamDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pfam"), nil
}

// ConfigPath returns the absolute path to ~/.pfam/pfam.yaml.
func ConfigPath() (string, error) {
	dir, err := PfamDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pfam.yaml"), nil
}

// DefaultDataDir returns the default reference directory, ~/.pfam/data/Pfam.
func DefaultDataDir() (string, error) {
	dir, err := PfamDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data", "Pfam"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Mirror:       DefaultMirror,
		HMMERProgram: "hmmsearch",
		HMMPress:     "hmmpress",
		NumThreads:   1,
	}
}

// Load reads ~/.pfam/pfam.yaml, falling back to defaults for a missing file
// or missing keys. PFAM_MIRROR overrides the mirror.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	default:
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		cfg.merge(&fromFile)
	}

	mirror, err := GetConfigValue("PFAM_MIRROR")
	if err != nil {
		return nil, err
	}
	if mirror != "" {
		cfg.Mirror = mirror
	}
	cfg.Mirror = strings.TrimRight(cfg.Mirror, "/")
	if cfg.NumThreads < 1 {
		return nil, fmt.Errorf("invalid num_threads %d in %s: must be at least 1", cfg.NumThreads, path)
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Mirror != "" {
		c.Mirror = o.Mirror
	}
	if o.HMMERProgram != "" {
		c.HMMERProgram = o.HMMERProgram
	}
	if o.HMMPress != "" {
		c.HMMPress = o.HMMPress
	}
	if o.NumThreads != 0 {
		c.NumThreads = o.NumThreads
	}
}

// Save marshals cfg and writes it to ~/.pfam/pfam.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
