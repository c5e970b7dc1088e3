package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/registry"
)

var blocksJSON bool

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List discovered blocks",
	Long: `List the blocks discovered under data_root.

For each block, displays the ID and the number of channel files found
(channels are consumed in lexicographic filename order).

Use --json for machine-readable JSONL output.`,
	RunE: runBlocks,
}

func init() {
	blocksCmd.Flags().BoolVar(&blocksJSON, "json", false, "Output in JSONL format")
	rootCmd.AddCommand(blocksCmd)
}

func runBlocks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	blocks := reg.Blocks()

	if blocksJSON {
		return formatBlocksJSONL(blocks)
	}

	if len(blocks) == 0 {
		fmt.Printf("No blocks found under %s\n", cfg.DataRoot)
		return nil
	}

	fmt.Printf("%-12s %-9s %s\n", "BLOCK", "CHANNELS", "PATH")
	for _, b := range blocks {
		fmt.Printf("%-12s %-9d %s\n", b.ID, b.ChannelCount(), b.Path)
	}

	noun := "block"
	if len(blocks) != 1 {
		noun = "blocks"
	}
	fmt.Printf("\n%d %s found\n", len(blocks), noun)
	return nil
}

func formatBlocksJSONL(blocks []registry.Block) error {
	enc := json.NewEncoder(os.Stdout)
	for _, b := range blocks {
		row := struct {
			ID       string `json:"id"`
			Channels int    `json:"channels"`
			Path     string `json:"path"`
		}{b.ID, b.ChannelCount(), b.Path}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode block %s: %w", b.ID, err)
		}
	}
	return nil
}
