package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for CodeShield. Nil
// fields mean "not set" so CLI flags and other files can take precedence.
type FileConfig struct {
	Include        *string  `yaml:"include,omitempty"`
	Exclude        *string  `yaml:"exclude,omitempty"`
	SkipDirs       []string `yaml:"skip_dirs,omitempty"`
	SkipExtensions []string `yaml:"skip_extensions,omitempty"`
	MaxBytes       *int64   `yaml:"max_bytes,omitempty"`
	Threads        *int     `yaml:"threads,omitempty"`
	Enable         *string  `yaml:"enable,omitempty"`
	Disable        *string  `yaml:"disable,omitempty"`
	FailOn         *string  `yaml:"fail_on,omitempty"`
	NoColor        *bool    `yaml:"no_color,omitempty"`
	Rules          *string  `yaml:"rules,omitempty"`
	Baseline       *string  `yaml:"baseline,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .codeshield.yml/.yaml and codeshield.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".codeshield.yml", ".codeshield.yaml", "codeshield.yml", "codeshield.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "codeshield", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
