// Package profile loads and saves merge run settings as YAML so a
// recurring dataset can be merged without repeating flags.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile mirrors the merge command's flags. Zero values mean "not
// set"; the command only applies fields the profile actually carries.
type Profile struct {
	Pattern      string   `yaml:"pattern,omitempty"`
	Schema       string   `yaml:"schema,omitempty"`
	AssumeHeader string   `yaml:"assume_header,omitempty"`
	Sentinel     string   `yaml:"sentinel,omitempty"`
	ChunkSize    int      `yaml:"chunk_size,omitempty"`
	DedupeKeys   []string `yaml:"dedupe_keys,omitempty"`
	SortBy       []string `yaml:"sort_by,omitempty"`
	OutCSV       string   `yaml:"out_csv,omitempty"`
	OutParquet   string   `yaml:"out_parquet,omitempty"`
	Compression  string   `yaml:"compression,omitempty"`
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Save writes a profile as YAML.
func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
