package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/blockcache"
	"github.com/aind-data/blockhound/internal/registry"
	"github.com/aind-data/blockhound/internal/resolver"
)

var inspectNeighbors int

var inspectCmd = &cobra.Command{
	Use:   "inspect <block>",
	Short: "Decode a block and print per-channel intensity statistics",
	Long: `Decode a block's channel files and print dimensions and intensity
statistics per channel. Decoding happens through the same bounded cache
and background loader the viewer uses.

With --neighbors N, the N blocks on either side are pre-warmed into the
cache as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectNeighbors, "neighbors", 0, "Also pre-warm this many adjacent blocks on each side")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	blockID, err := resolver.ResolveBlockID(reg, args[0])
	if err != nil {
		return err
	}

	block, err := reg.Get(blockID)
	if err != nil {
		return err
	}

	cache, err := blockcache.New(cfg.CacheCapacity, blockcache.TIFFLoader())
	if err != nil {
		return err
	}

	if inspectNeighbors > 0 {
		cache.Preload(neighborBlocks(reg, blockID, inspectNeighbors))
	}

	payload, err := cache.LoadBlocking(context.Background(), block)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d channels\n", payload.BlockID, len(payload.Channels))
	for i, ch := range payload.Channels {
		min, max, mean := channelStats(ch)
		fmt.Printf("  channel %d: %dx%d  min=%.0f max=%.0f mean=%.1f\n",
			i, ch.Width, ch.Height, min, max, mean)
	}

	return nil
}

// neighborBlocks returns up to n blocks on each side of blockID in registry
// order.
func neighborBlocks(reg *registry.Registry, blockID string, n int) []registry.Block {
	blocks := reg.Blocks()
	idx := -1
	for i, b := range blocks {
		if b.ID == blockID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var out []registry.Block
	for i := idx - n; i <= idx+n; i++ {
		if i < 0 || i >= len(blocks) || i == idx {
			continue
		}
		out = append(out, blocks[i])
	}
	return out
}

func channelStats(ch blockcache.Channel) (min, max, mean float64) {
	if len(ch.Pixels) == 0 {
		return 0, 0, 0
	}

	min = math.Inf(1)
	max = math.Inf(-1)
	sum := 0.0
	for _, p := range ch.Pixels {
		v := float64(p)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	return min, max, sum / float64(len(ch.Pixels))
}
