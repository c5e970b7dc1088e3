// Package scaffold creates the blockhound project structure: a starter
// blockhound.yml plus the annotation and data directories it points at.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aind-data/blockhound/internal/config"
)

// Initialize creates the blockhound project structure in the current
// directory. If force is true, an existing blockhound.yml is removed first.
func Initialize(force bool) error {
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(config.DefaultFile); err == nil {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultFile)
	}

	cfg := starterConfig()

	if err := createDirectories(cfg); err != nil {
		return err
	}

	if err := writeConfig(cfg); err != nil {
		return err
	}

	// Round-trip the file we just wrote so a broken scaffold is caught now
	// rather than on the first real command.
	if _, err := config.Load(config.DefaultFile); err != nil {
		return fmt.Errorf("generated config failed validation: %w", err)
	}

	return nil
}

func starterConfig() *config.Config {
	return &config.Config{
		DataRoot:        "./data/blocks",
		AnnotationsRoot: "./annotations",
		Classes:         []string{"Class 1", "Class 2", "Class 3"},
		CacheCapacity:   10,
	}
}

func handleForce() error {
	if _, err := os.Stat(config.DefaultFile); err == nil {
		fmt.Printf("⚠️  Removing existing %s...\n", config.DefaultFile)
		if err := os.Remove(config.DefaultFile); err != nil {
			return fmt.Errorf("failed to remove %s: %w", config.DefaultFile, err)
		}
	}
	return nil
}

func createDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.DataRoot,
		cfg.UsersDir(),
		cfg.AdminDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func writeConfig(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# blockhound project configuration\n# admins: identities permitted to set final-label overrides\n")
	if err := os.WriteFile(config.DefaultFile, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.DefaultFile, err)
	}

	return nil
}
