package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of a --config manifest-merger.yaml file (§2B):
// it pre-declares the library paths and merge options a driver would
// otherwise repeat as flags on every invocation.
type fileConfig struct {
	Libraries              []string `yaml:"libraries"`
	LenientNumericLimits   bool     `yaml:"lenient_numeric_limits"`
	MarkerStyle            string   `yaml:"marker_style"`
	AllowedFeatureOverride bool     `yaml:"allowed_feature_override"`
}

func loadFileConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
