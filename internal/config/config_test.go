package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "blockhound.yml")

	validConfig := `data_root: /mnt/shared/blocks
annotations_root: /mnt/shared/annotations
classes:
  - Tumor
  - Stroma
cache_capacity: 5
admins:
  - Alice
`
	err := os.WriteFile(configPath, []byte(validConfig), 0o644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/shared/blocks", cfg.DataRoot)
	assert.Equal(t, []string{"Tumor", "Stroma"}, cfg.Classes)
	assert.Equal(t, 5, cfg.CacheCapacity)
	assert.Equal(t, filepath.Join("/mnt/shared/annotations", "users"), cfg.UsersDir())
	assert.Equal(t, filepath.Join("/mnt/shared/annotations", "admin", "overrides.json"), cfg.OverridesFile())
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/blockhound.yml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "blockhound.yml")

	invalidYAML := `data_root: /x
annotations_root:
  - this is invalid
    yaml syntax
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0o644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{DataRoot: "/x", AnnotationsRoot: "/y"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.CacheCapacity)
	assert.Len(t, cfg.Classes, 3)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	err := (&Config{AnnotationsRoot: "/y"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data_root is required")

	err = (&Config{DataRoot: "/x"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "annotations_root is required")
}

func TestValidate_NegativeCapacity(t *testing.T) {
	cfg := &Config{DataRoot: "/x", AnnotationsRoot: "/y", CacheCapacity: -2}
	assert.Error(t, cfg.Validate())
}

func TestValidate_DuplicateAdmins(t *testing.T) {
	cfg := &Config{DataRoot: "/x", AnnotationsRoot: "/y", Admins: []string{"Alice", "alice"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate admin identity")
}

func TestValidate_RejectsUnsafeAdminIdentity(t *testing.T) {
	cfg := &Config{DataRoot: "/x", AnnotationsRoot: "/y", Admins: []string{"team/alice"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid admin identity")
}

func TestValidLabel(t *testing.T) {
	cfg := &Config{DataRoot: "/x", AnnotationsRoot: "/y", Classes: []string{"A", "B"}}
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.ValidLabel(0))
	assert.True(t, cfg.ValidLabel(1))
	assert.True(t, cfg.ValidLabel(2))
	assert.False(t, cfg.ValidLabel(3))
	assert.Equal(t, "B", cfg.ClassName(2))
	assert.Equal(t, "", cfg.ClassName(9))
}
