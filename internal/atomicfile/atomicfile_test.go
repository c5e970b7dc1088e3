package atomicfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "record.json")

	err := WriteJSON(path, doc{Name: "alice", Count: 3})
	require.NoError(t, err)

	data, err := Read(path)
	require.NoError(t, err)

	var got doc
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc{Name: "alice", Count: 3}, got)
}

func TestWriteJSON_CreatesParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "deeper", "record.json")

	err := WriteJSON(path, doc{Name: "bob"})
	require.NoError(t, err)
	assert.True(t, Exists(path))
}

func TestWriteJSON_NoStrayTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "record.json")

	for i := 0; i < 5; i++ {
		require.NoError(t, WriteJSON(path, doc{Count: i}))
	}

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "record.json", entries[0].Name())
}

func TestWriteJSON_ConcurrentWritersNeverTear(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "record.json")

	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				assert.NoError(t, WriteJSON(path, doc{Name: name, Count: i}))
			}
		}([]string{"alice", "bob"}[w])
	}
	wg.Wait()

	// Whichever rename landed last, the content must be one writer's
	// complete document.
	data, err := Read(path)
	require.NoError(t, err)

	var got doc
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, []string{"alice", "bob"}, got.Name)
	assert.Equal(t, 19, got.Count)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should survive successful writes")
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRead_RetriesThroughTransientCorruption(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "record.json")

	// Simulate the torn view another NFS client can observe mid-rename:
	// invalid JSON that becomes valid before the retry budget runs out.
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "ali`), 0o644))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = WriteJSON(path, doc{Name: "alice", Count: 1})
	}()

	data, err := Read(path)
	require.NoError(t, err)

	var got doc
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "alice", got.Name)
}

func TestRead_ExhaustedRetriesSurfaceUnavailable(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "record.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "ali`), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
