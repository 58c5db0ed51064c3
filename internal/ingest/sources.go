// Package ingest produces raw news items for the pipeline, either from RSS
// feeds or from scraper JSON dumps. It owns no selector logic; feed payloads
// are taken as-is apart from markup stripping.
package ingest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one configured news feed.
type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	BuzzLevel string `yaml:"buzz_level"` // EXTREME | HIGH | MEDIUM
	Category  string `yaml:"category"`   // optional category hint
}

// SourcesConfig is the YAML config structure
// sources:
//   - name: ...
//     url: https://...
//     buzz_level: HIGH
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the feed source list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Sources, nil
}
