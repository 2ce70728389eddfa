package source

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest records what went into one build of the dataset. It is written
// next to the emitted documents so consumers can tell which snapshot of
// the registries they are holding.
type Manifest struct {
	GeneratedAt string           `yaml:"generated_at"`
	Sources     []ManifestSource `yaml:"sources"`
	Prefixes    int              `yaml:"prefixes"`
}

// ManifestSource is the per-registry slice of a Manifest.
type ManifestSource struct {
	ID      string `yaml:"id"`
	URL     string `yaml:"url"`
	License string `yaml:"license"`
	Rows    int    `yaml:"rows"`
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
