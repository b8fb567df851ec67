package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFilename is the per-directory defaults file picked up from the
// input PGN's directory.
const configFilename = ".courseforge.yml"

// Config holds defaults a study directory can set for its exports.
type Config struct {
	// OutputDir is the default chapter output directory.
	OutputDir string `yaml:"output_dir"`
	// Marker overrides the split-marker comment token.
	Marker string `yaml:"marker"`
	// Headers are tag overrides applied to the loaded game before export,
	// e.g. Event, StudyName, ChapterName.
	Headers map[string]string `yaml:"headers"`
}

// LoadConfig reads .courseforge.yml from dir. A missing file is not an
// error; it yields an empty config.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
