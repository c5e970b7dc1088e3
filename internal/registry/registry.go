// Package registry discovers annotatable blocks from the data root
// directory layout. A block is a subdirectory named block_NNNN containing
// one or more TIFF channel files; channels are always consumed in
// lexicographic order so every machine sees the same channel indexing.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aind-data/blockhound/pkg/annotations"
)

// Matches block_0001, block_0042, block_9999, etc.
var blockPattern = regexp.MustCompile(`^block_\d{4}$`)

// Block is the metadata for one annotatable block. Immutable once
// discovered — a rescan may add or drop blocks but never mutates an
// existing one.
type Block struct {
	ID           string
	Path         string
	ChannelFiles []string // absolute paths, lexicographic order
}

// ChannelCount returns the number of channel files discovered for the block.
func (b Block) ChannelCount() int {
	return len(b.ChannelFiles)
}

// Registry scans a data root and keeps an ordered list of discovered blocks.
// Call Scan once at startup; Rescan is idempotent and safe to call whenever
// the directory may have changed.
type Registry struct {
	dataRoot string
	blocks   []Block
}

// New creates a registry rooted at dataRoot. No filesystem access happens
// until Scan is called.
func New(dataRoot string) *Registry {
	return &Registry{dataRoot: dataRoot}
}

// Scan populates the block list from the filesystem. Directory entries that
// do not match the block naming pattern are silently skipped. A missing data
// root yields an empty registry, not an error.
func (r *Registry) Scan() error {
	r.blocks = nil

	entries, err := os.ReadDir(r.dataRoot)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read data root %s: %w", r.dataRoot, err)
	}

	for _, e := range entries {
		if !e.IsDir() || !blockPattern.MatchString(e.Name()) {
			continue
		}

		dir := filepath.Join(r.dataRoot, e.Name())
		channels, err := listChannelFiles(dir)
		if err != nil {
			return err
		}

		r.blocks = append(r.blocks, Block{
			ID:           e.Name(),
			Path:         dir,
			ChannelFiles: channels,
		})
	}

	sort.Slice(r.blocks, func(i, j int) bool { return r.blocks[i].ID < r.blocks[j].ID })
	return nil
}

// Rescan re-reads the filesystem, optionally switching to a new data root
// first.
func (r *Registry) Rescan(newRoot string) error {
	if newRoot != "" {
		r.dataRoot = newRoot
	}
	return r.Scan()
}

// Blocks returns all discovered blocks in ID order.
func (r *Registry) Blocks() []Block {
	out := make([]Block, len(r.blocks))
	copy(out, r.blocks)
	return out
}

// BlockIDs returns the ordered list of discovered block IDs.
func (r *Registry) BlockIDs() []string {
	ids := make([]string, len(r.blocks))
	for i, b := range r.blocks {
		ids[i] = b.ID
	}
	return ids
}

// Get returns the block with the given ID, or ErrNotFound.
func (r *Registry) Get(blockID string) (Block, error) {
	for _, b := range r.blocks {
		if b.ID == blockID {
			return b, nil
		}
	}
	return Block{}, fmt.Errorf("block %s: %w", blockID, annotations.ErrNotFound)
}

// Count returns the number of discovered blocks.
func (r *Registry) Count() int {
	return len(r.blocks)
}

func listChannelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read block directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".tif") || strings.HasSuffix(name, ".tiff") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
