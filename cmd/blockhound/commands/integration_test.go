package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aind-data/blockhound/internal/config"
	"github.com/aind-data/blockhound/internal/scaffold"
)

// setupProject scaffolds a project in a temp working directory and points
// the package-level flags at it.
func setupProject(t *testing.T, blockIDs ...string) {
	t.Helper()
	// Pre-Go 1.24 equivalent of t.Chdir(t.TempDir()).
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	require.NoError(t, scaffold.Initialize(false))
	for _, id := range blockIDs {
		require.NoError(t, os.MkdirAll(filepath.Join("data", "blocks", id), 0o755))
	}

	cfgFile = config.DefaultFile
	t.Cleanup(func() { userFlag = "" })
}

func TestLabelReviewExportFlow(t *testing.T) {
	setupProject(t, "block_0001", "block_0002")

	userFlag = "Alice"
	require.NoError(t, runLabelSet(nil, []string{"1", "2"}))
	require.NoError(t, runLabelSet(nil, []string{"2", "1"}))

	userFlag = "bob"
	require.NoError(t, runLabelSet(nil, []string{"block_0001", "1"}))

	require.NoError(t, runReview(nil, nil))
	require.NoError(t, runStats(nil, nil))

	require.NoError(t, runExport(nil, []string{"out/summary.csv"}))
	assert.FileExists(t, filepath.Join("out", "summary.csv"))

	// Both identities' record files exist on the "shared mount".
	assert.FileExists(t, filepath.Join("annotations", "users", "alice.json"))
	assert.FileExists(t, filepath.Join("annotations", "users", "bob.json"))
}

func TestOverrideRequiresAllowList(t *testing.T) {
	setupProject(t, "block_0001")

	userFlag = "mallory"
	err := runOverrideSet(nil, []string{"1", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not authorized")
	assert.NoFileExists(t, filepath.Join("annotations", "admin", "overrides.json"))
}

func TestLabelSet_RejectsOutOfRangeLabel(t *testing.T) {
	setupProject(t, "block_0001")

	userFlag = "alice"
	err := runLabelSet(nil, []string{"1", "9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid label")
}

func TestLabelClear_WarnsWhenUnlabeled(t *testing.T) {
	setupProject(t, "block_0001")

	userFlag = "alice"
	require.NoError(t, runLabelClear(nil, []string{"1"}))
}
