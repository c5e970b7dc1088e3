package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aind-data/blockhound/internal/registry"
)

func testRegistry(t *testing.T, ids ...string) *registry.Registry {
	t.Helper()
	root := t.TempDir()
	for _, id := range ids {
		dir := filepath.Join(root, id)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ch.tif"), []byte("x"), 0o644))
	}

	reg := registry.New(root)
	require.NoError(t, reg.Scan())
	return reg
}

func TestResolveBlockID(t *testing.T) {
	reg := testRegistry(t, "block_0001", "block_0002", "block_0042")

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "full ID", ref: "block_0002", want: "block_0002"},
		{name: "bare number", ref: "42", want: "block_0042"},
		{name: "bare number zero padded", ref: "1", want: "block_0001"},
		{name: "unique prefix", ref: "block_004", want: "block_0042"},
		{name: "ambiguous prefix", ref: "block_000", wantErr: "ambiguous"},
		{name: "no match", ref: "block_9999", wantErr: "no block matches"},
		{name: "empty", ref: "  ", wantErr: "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBlockID(reg, tt.ref)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
