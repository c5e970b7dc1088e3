// Package atomicfile provides crash-safe JSON reads and writes for files on
// shared, network-attached filesystems (NFS/CIFS).
//
// Writes follow a strict four-step protocol: write to a uniquely named temp
// file in the target's directory, fsync the temp file, atomically rename it
// onto the target, then fsync the directory so the rename itself is durable
// and promptly visible to other clients of the mount. Readers retry through
// the brief staleness windows NFS client caches produce right after another
// machine's rename.
package atomicfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable indicates a read kept failing after all retry attempts.
// Callers should treat the file as temporarily unreadable, not as corrupt.
var ErrUnavailable = errors.New("file unavailable after retries")

const (
	readAttempts   = 3
	readRetryFloor = 50 * time.Millisecond
)

// WriteJSON atomically replaces the content of path with the JSON encoding
// of v. Concurrent readers see either the complete prior content or the
// complete new content, never a mixture, even across a crash mid-write.
//
// The temp file name carries a fresh UUID suffix per call so two processes
// writing the same target concurrently can never collide on the temp path.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON for %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s_%s.tmp", base, uuid.New().String()))

	if err := writeAndSync(tmpPath, data); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s onto %s: %w", tmpPath, path, err)
	}

	// Sync the directory so the rename survives a crash on the server side.
	// Some network filesystems reject fsync on a directory fd; the rename has
	// already succeeded at this point, so that is tolerated.
	syncDir(dir)

	return nil
}

func writeAndSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp file %s: %w", path, err)
	}

	// Flush page cache to the filesystem (the NFS server for remote mounts)
	// before the rename makes the content authoritative.
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync temp file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %s: %w", path, err)
	}

	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}

// Read returns the full content of path, guaranteed to be syntactically
// valid JSON.
//
// A missing file is reported via os.ErrNotExist so callers can distinguish
// "never written" from a transient failure. I/O errors and invalid JSON
// (which is what a half-visible rename looks like from another NFS client)
// are retried with doubling delays, readAttempts total; exhausting the
// budget surfaces ErrUnavailable wrapping the last underlying error.
func Read(path string) ([]byte, error) {
	var lastErr error

	delay := readRetryFloor
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, err
			}
			lastErr = err
			continue
		}

		if !json.Valid(data) {
			lastErr = fmt.Errorf("invalid JSON in %s (%d bytes)", path, len(data))
			continue
		}

		return data, nil
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, lastErr)
}

// Exists reports whether path currently exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
