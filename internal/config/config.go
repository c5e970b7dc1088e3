// Package config loads and validates the blockhound.yml project
// configuration. The config is constructed once at startup and threaded
// through constructors; there is no global mutable state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aind-data/blockhound/pkg/annotations"
)

// DefaultFile is the config filename looked up in the working directory.
const DefaultFile = "blockhound.yml"

var defaultClasses = []string{"Class 1", "Class 2", "Class 3"}

// Config represents the top-level blockhound.yml configuration.
type Config struct {
	DataRoot        string   `yaml:"data_root"`        // directory of block_NNNN subdirectories
	AnnotationsRoot string   `yaml:"annotations_root"` // shared directory for record files
	Classes         []string `yaml:"classes,omitempty"`
	CacheCapacity   int      `yaml:"cache_capacity,omitempty"` // decoded blocks kept in memory (default 10)
	Admins          []string `yaml:"admins,omitempty"`         // identities allowed to set overrides
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate performs strict validation and applies defaults for optional
// fields.
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}

	if c.AnnotationsRoot == "" {
		return fmt.Errorf("annotations_root is required")
	}

	if len(c.Classes) == 0 {
		c.Classes = append([]string(nil), defaultClasses...)
	}

	if c.CacheCapacity == 0 {
		c.CacheCapacity = 10
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be >= 1, got %d", c.CacheCapacity)
	}

	seen := map[string]string{}
	for _, a := range c.Admins {
		id := annotations.NormalizeIdentity(a)
		if !annotations.ValidIdentity(id) {
			return fmt.Errorf("invalid admin identity %q: only lowercase letters, digits, '.', '_' and '-' are allowed", a)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("duplicate admin identity %q (entries %q and %q)", id, prev, a)
		}
		seen[id] = a
	}

	return nil
}

// ValidLabel reports whether label maps to a configured class (labels are
// 1-based class indexes).
func (c *Config) ValidLabel(label int) bool {
	return label >= 1 && label <= len(c.Classes)
}

// ClassName returns the display name for a label, or "" for out-of-range
// labels.
func (c *Config) ClassName(label int) string {
	if !c.ValidLabel(label) {
		return ""
	}
	return c.Classes[label-1]
}

// UsersDir is the directory holding one record file per identity.
func (c *Config) UsersDir() string {
	return filepath.Join(c.AnnotationsRoot, "users")
}

// AdminDir is the directory holding the shared override file.
func (c *Config) AdminDir() string {
	return filepath.Join(c.AnnotationsRoot, "admin")
}

// OverridesFile is the path of the single shared override record.
func (c *Config) OverridesFile() string {
	return filepath.Join(c.AdminDir(), "overrides.json")
}
