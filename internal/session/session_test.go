package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aind-data/blockhound/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		DataRoot:        filepath.Join(root, "blocks"),
		AnnotationsRoot: filepath.Join(root, "annotations"),
		Admins:          []string{"boss"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOpen_CreatesRecordAndNormalizesIdentity(t *testing.T) {
	cfg := testConfig(t)

	sess, err := Open(cfg, "Alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", sess.Identity)
	assert.False(t, sess.IsAdmin)
	assert.FileExists(t, filepath.Join(cfg.UsersDir(), "alice.json"))
}

func TestOpen_AdminFlagFromAllowList(t *testing.T) {
	cfg := testConfig(t)

	sess, err := Open(cfg, "BOSS")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
}

func TestOpen_EmptyIdentity(t *testing.T) {
	cfg := testConfig(t)

	_, err := Open(cfg, "   ")
	assert.Error(t, err)
}
