package blockcache

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/aind-data/blockhound/internal/registry"
)

func writeGrayTIFF(t *testing.T, path string, w, h int, value uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = value
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tiff.Encode(f, img, nil))
}

func TestTIFFLoader_DecodesChannelsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeGrayTIFF(t, filepath.Join(dir, "ch_a.tif"), 4, 3, 100)
	writeGrayTIFF(t, filepath.Join(dir, "ch_b.tif"), 4, 3, 200)

	block := registry.Block{
		ID:   "block_0001",
		Path: dir,
		ChannelFiles: []string{
			filepath.Join(dir, "ch_a.tif"),
			filepath.Join(dir, "ch_b.tif"),
		},
	}

	payload, err := TIFFLoader()(block)
	require.NoError(t, err)
	require.Len(t, payload.Channels, 2)

	first := payload.Channels[0]
	assert.Equal(t, 4, first.Width)
	assert.Equal(t, 3, first.Height)
	require.Len(t, first.Pixels, 12)
	// 8-bit gray scales to 16-bit by duplication: v * 257.
	assert.Equal(t, float32(100*257), first.Pixels[0])
	assert.Equal(t, float32(200*257), payload.Channels[1].Pixels[0])
}

func TestTIFFLoader_NoChannelFiles(t *testing.T) {
	_, err := TIFFLoader()(registry.Block{ID: "block_0001"})
	assert.Error(t, err)
}

func TestTIFFLoader_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tif")
	require.NoError(t, os.WriteFile(path, []byte("not a tiff"), 0o644))

	_, err := TIFFLoader()(registry.Block{ID: "block_0001", Path: dir, ChannelFiles: []string{path}})
	assert.Error(t, err)
}
