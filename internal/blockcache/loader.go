package blockcache

import (
	"fmt"
	"image/color"
	"os"

	"golang.org/x/image/tiff"

	"github.com/aind-data/blockhound/internal/registry"
)

// TIFFLoader returns a LoadFunc that decodes every channel file of a block
// into a float32 intensity plane. Channel order follows the registry's
// lexicographic file order.
func TIFFLoader() LoadFunc {
	return func(block registry.Block) (*Payload, error) {
		if len(block.ChannelFiles) == 0 {
			return nil, fmt.Errorf("block %s has no channel files", block.ID)
		}

		channels := make([]Channel, 0, len(block.ChannelFiles))
		for _, path := range block.ChannelFiles {
			ch, err := decodeChannel(path)
			if err != nil {
				return nil, fmt.Errorf("channel %s: %w", path, err)
			}
			channels = append(channels, ch)
		}

		return &Payload{BlockID: block.ID, Channels: channels}, nil
	}
}

func decodeChannel(path string) (Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return Channel{}, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return Channel{}, fmt.Errorf("tiff decode failed: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]float32, 0, w*h)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			pixels = append(pixels, float32(g.Y))
		}
	}

	return Channel{Width: w, Height: h, Pixels: pixels}, nil
}
